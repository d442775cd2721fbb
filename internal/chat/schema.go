package chat

import (
	"encoding/json"

	"github.com/ptarling/trolley/internal/llm"
)

// Tool names. The executor dispatches on these as a closed set; a name
// outside it is reported back to the model as an error string.
const (
	toolListItems      = "list_items"
	toolAddItem        = "add_item"
	toolDeleteItem     = "delete_item"
	toolUpdateItem     = "update_item"
	toolTickItem       = "tick_item"
	toolUntickItem     = "untick_item"
	toolListCategories = "list_categories"
	toolAddCategory    = "add_category"
	toolDeleteCategory = "delete_category"
)

func fn(name, description, params string) llm.Tool {
	return llm.Tool{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  json.RawMessage(params),
		},
	}
}

// toolCatalog is the fixed function-schema list sent with every completion
// request. Every tool operates on the turn's active list.
var toolCatalog = []llm.Tool{
	fn(toolListItems,
		"List shopping items, optionally filtering by category. Shows ticked status.",
		`{
			"type": "object",
			"properties": {
				"category_name": {"type": "string", "description": "The name of the category to filter by."}
			},
			"required": []
		}`),
	fn(toolAddItem,
		"Add a new item to the shopping list with a category name. If the category doesn't exist it will be created. Items are added unticked by default.",
		`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "The name of the item to add."},
				"category_name": {"type": "string", "description": "The name of the category for the item."},
				"note": {"type": "string", "description": "Optional note for the item."},
				"price_match": {"type": "boolean", "description": "Whether to flag the item for price matching.", "default": false}
			},
			"required": ["name", "category_name"]
		}`),
	fn(toolDeleteItem,
		"Delete an item from the shopping list by its name.",
		`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "The name of the item to delete."}
			},
			"required": ["name"]
		}`),
	fn(toolUpdateItem,
		"Update an existing item in the shopping list by its ID.",
		`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "The ID of the item to update."},
				"name": {"type": "string", "description": "New name for the item."},
				"category_name": {"type": "string", "description": "New category name for the item. Requires the category to exist."},
				"note": {"type": "string", "description": "New note for the item."},
				"price_match": {"type": "boolean", "description": "New price match status for the item."},
				"is_ticked": {"type": "boolean", "description": "New ticked status for the item (true/false)."}
			},
			"required": ["id"]
		}`),
	fn(toolTickItem,
		"Mark a specific shopping item as ticked/acquired by its name.",
		`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "The exact name of the item to mark as ticked."}
			},
			"required": ["name"]
		}`),
	fn(toolUntickItem,
		"Mark a specific shopping item as unticked by its name.",
		`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "The exact name of the item to mark as unticked."}
			},
			"required": ["name"]
		}`),
	fn(toolListCategories,
		"List all categories on the shopping list.",
		`{
			"type": "object",
			"properties": {}
		}`),
	fn(toolAddCategory,
		"Add a new category for organizing shopping items.",
		`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "The name of the new category."}
			},
			"required": ["name"]
		}`),
	fn(toolDeleteCategory,
		"Delete a category if it's empty.",
		`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "The name of the category to delete."}
			},
			"required": ["name"]
		}`),
}
