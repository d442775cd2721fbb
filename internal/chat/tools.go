package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/service"
)

// Executor runs tool calls against the service layer. Every call is scoped
// to the turn's active list and caller; results are always human-readable
// status strings fed back into the model's context, never raised errors.
type Executor struct {
	categories *service.CategoryService
	items      *service.ItemService
	logger     *slog.Logger
}

func NewExecutor(categories *service.CategoryService, items *service.ItemService, logger *slog.Logger) *Executor {
	return &Executor{categories: categories, items: items, logger: logger}
}

// turnScope identifies the list and caller a tool round operates on.
// It is injected by the orchestrator, never supplied by the model.
type turnScope struct {
	userID int64
	listID int64
}

// Execute dispatches one tool call. Unknown names, malformed JSON arguments,
// and panics inside a handler all come back as error strings so the
// conversational loop stays alive.
func (e *Executor) Execute(scope turnScope, name, arguments string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tool panic", "tool", name, "panic", fmt.Sprint(r))
			result = fmt.Sprintf("Error executing %s: internal error.", name)
		}
	}()

	if arguments == "" {
		arguments = "{}"
	}

	switch name {
	case toolListItems:
		var args struct {
			CategoryName string `json:"category_name"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		return e.listItems(scope, args.CategoryName)
	case toolAddItem:
		var args struct {
			Name         string `json:"name"`
			CategoryName string `json:"category_name"`
			Note         string `json:"note"`
			PriceMatch   bool   `json:"price_match"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		if args.Name == "" || args.CategoryName == "" {
			return "Error: add_item requires both 'name' and 'category_name'."
		}
		return e.addItem(scope, args.Name, args.CategoryName, args.Note, args.PriceMatch)
	case toolDeleteItem:
		var args struct {
			Name string `json:"name"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		if args.Name == "" {
			return "Error: delete_item requires 'name'."
		}
		return e.deleteItem(scope, args.Name)
	case toolUpdateItem:
		var args struct {
			ID           *int64  `json:"id"`
			Name         *string `json:"name"`
			CategoryName *string `json:"category_name"`
			Note         *string `json:"note"`
			PriceMatch   *bool   `json:"price_match"`
			IsTicked     *bool   `json:"is_ticked"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		if args.ID == nil {
			return "Error: update_item requires 'id'."
		}
		return e.updateItem(scope, *args.ID, args.Name, args.CategoryName, args.Note, args.PriceMatch, args.IsTicked)
	case toolTickItem:
		var args struct {
			Name string `json:"name"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		if args.Name == "" {
			return "Error: tick_item requires 'name'."
		}
		return e.setTicked(scope, args.Name, true)
	case toolUntickItem:
		var args struct {
			Name string `json:"name"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		if args.Name == "" {
			return "Error: untick_item requires 'name'."
		}
		return e.setTicked(scope, args.Name, false)
	case toolListCategories:
		return e.listCategories(scope)
	case toolAddCategory:
		var args struct {
			Name string `json:"name"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		if args.Name == "" {
			return "Error: add_category requires 'name'."
		}
		return e.addCategory(scope, args.Name)
	case toolDeleteCategory:
		var args struct {
			Name string `json:"name"`
		}
		if msg, ok := decodeArgs(name, arguments, &args); !ok {
			return msg
		}
		if args.Name == "" {
			return "Error: delete_category requires 'name'."
		}
		return e.deleteCategory(scope, args.Name)
	default:
		return fmt.Sprintf("Error: Function %s not found.", name)
	}
}

func decodeArgs(tool, arguments string, v any) (string, bool) {
	if err := json.Unmarshal([]byte(arguments), v); err != nil {
		return fmt.Sprintf("Error: Invalid arguments format for function %s. Expected JSON.", tool), false
	}
	return "", true
}

// --- Item tools ---

func (e *Executor) listItems(scope turnScope, categoryName string) string {
	categories, err := e.categories.ListByList(scope.userID, scope.listID)
	if err != nil {
		return errString("listing items", err)
	}
	catNames := make(map[int64]string, len(categories))
	var filterID int64
	for _, c := range categories {
		catNames[c.ID] = c.Name
		if categoryName != "" && c.Name == categoryName {
			filterID = c.ID
		}
	}
	if categoryName != "" && filterID == 0 {
		return fmt.Sprintf("Error: Category '%s' not found.", categoryName)
	}

	items, err := e.items.ListByList(scope.userID, scope.listID)
	if err != nil {
		return errString("listing items", err)
	}
	if categoryName != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.CategoryID == filterID {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	if len(items) == 0 {
		if categoryName != "" {
			return fmt.Sprintf("No items found in category %s.", categoryName)
		}
		return "No items found."
	}

	var b strings.Builder
	if categoryName != "" {
		fmt.Fprintf(&b, "Current items in %s:\n", categoryName)
	} else {
		b.WriteString("Current items:\n")
	}
	for _, it := range items {
		tick := " "
		if it.IsTicked {
			tick = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", tick, it.Name)
		if it.Note != "" {
			fmt.Fprintf(&b, " (%s)", it.Note)
		}
		if it.PriceMatch {
			b.WriteString(" [Price Match]")
		}
		fmt.Fprintf(&b, " (Category: %s, ID: %d)\n", catNames[it.CategoryID], it.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// addItem creates the category on demand. Two sibling calls in one round can
// race on that create; the loser re-looks the category up instead of failing.
func (e *Executor) addItem(scope turnScope, name, categoryName, note string, priceMatch bool) string {
	cat, err := e.findCategoryByName(scope, categoryName)
	if err != nil {
		return errString("finding category", err)
	}
	if cat == nil {
		cat, err = e.categories.Create(scope.userID, scope.listID, categoryName)
		if errors.Is(err, apperr.ErrConflict) {
			cat, err = e.findCategoryByName(scope, categoryName)
		}
		if err != nil {
			return fmt.Sprintf("Error creating/finding category '%s': %v", categoryName, err)
		}
		if cat == nil {
			return fmt.Sprintf("Error creating/finding category '%s'.", categoryName)
		}
	}

	existing, err := e.items.GetInCategory(scope.userID, cat.ID, name)
	if err != nil {
		return errString("checking for duplicates", err)
	}
	if existing != nil {
		return fmt.Sprintf("Item '%s' already exists in category '%s'.", name, categoryName)
	}

	item, err := e.items.Create(scope.userID, cat.ID, name, note, priceMatch)
	if err != nil {
		return fmt.Sprintf("Error adding item '%s': %v", name, err)
	}
	return fmt.Sprintf("Successfully added item: %s to category %s.", item.Name, cat.Name)
}

func (e *Executor) deleteItem(scope turnScope, name string) string {
	item, msg := e.resolveItemByName(scope, name)
	if msg != "" {
		return msg
	}

	if err := e.items.Delete(scope.userID, item.ID); err != nil {
		return fmt.Sprintf("Error deleting item '%s' (ID: %d): %v", name, item.ID, err)
	}
	return fmt.Sprintf("Successfully deleted item: %s (ID: %d).", item.Name, item.ID)
}

func (e *Executor) updateItem(scope turnScope, id int64, name, categoryName, note *string, priceMatch, ticked *bool) string {
	// Confirm the item belongs to the active list before anything else.
	// The caller may well have access to the item through another list;
	// a turn still only ever touches the list it is scoped to.
	item, err := e.items.Get(scope.userID, id)
	if err != nil || item == nil {
		return fmt.Sprintf("Error: Item with ID %d not found.", id)
	}
	listID, err := e.items.ListIDForItem(scope.userID, item)
	if err != nil || listID != scope.listID {
		return fmt.Sprintf("Error: Item with ID %d not found.", id)
	}

	upd := service.ItemUpdate{Name: name, Note: note, PriceMatch: priceMatch, IsTicked: ticked}
	if categoryName != nil {
		cat, catErr := e.findCategoryByName(scope, *categoryName)
		if catErr != nil {
			return errString("finding category", catErr)
		}
		if cat == nil {
			return fmt.Sprintf("Error: Category '%s' not found. Cannot update item.", *categoryName)
		}
		upd.CategoryID = &cat.ID
	}

	updated, err := e.items.Update(scope.userID, id, upd)
	if err != nil {
		return fmt.Sprintf("Error updating item ID %d: %v", id, err)
	}
	return fmt.Sprintf("Successfully updated item: %s (ID: %d).", updated.Name, id)
}

func (e *Executor) setTicked(scope turnScope, name string, ticked bool) string {
	item, msg := e.resolveItemByName(scope, name)
	if msg != "" {
		return msg
	}

	action := "ticked"
	if !ticked {
		action = "unticked"
	}
	if item.IsTicked == ticked {
		return fmt.Sprintf("Item '%s' is already %s.", name, action)
	}

	updated, err := e.items.SetTicked(scope.userID, item.ID, ticked)
	if err != nil {
		return fmt.Sprintf("Error updating ticked status for item '%s': %v", name, err)
	}
	return fmt.Sprintf("Successfully marked item '%s' as %s.", updated.Name, action)
}

// resolveItemByName finds exactly one item by case-insensitive name within
// the active list. Several items sharing a name is reported back with their
// ids so the model can retry with update_item; the lookup never picks one.
func (e *Executor) resolveItemByName(scope turnScope, name string) (*model.Item, string) {
	matches, err := e.items.SearchInList(scope.userID, scope.listID, name)
	if err != nil {
		return nil, errString("finding item", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Sprintf("Error: Item '%s' not found.", name)
	case 1:
		return &matches[0], ""
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = fmt.Sprintf("%d", m.ID)
		}
		return nil, fmt.Sprintf("Error: %d items named '%s' exist (IDs: %s). Use update_item with a specific ID.",
			len(matches), name, strings.Join(ids, ", "))
	}
}

// --- Category tools ---

func (e *Executor) listCategories(scope turnScope) string {
	categories, err := e.categories.ListByList(scope.userID, scope.listID)
	if err != nil {
		return errString("listing categories", err)
	}
	if len(categories) == 0 {
		return "No categories found."
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = "- " + c.Name
	}
	return "Available categories:\n" + strings.Join(names, "\n")
}

func (e *Executor) addCategory(scope turnScope, name string) string {
	existing, err := e.findCategoryByName(scope, name)
	if err != nil {
		return errString("finding category", err)
	}
	if existing != nil {
		return fmt.Sprintf("Category '%s' already exists.", name)
	}

	cat, err := e.categories.Create(scope.userID, scope.listID, name)
	if errors.Is(err, apperr.ErrConflict) {
		// Lost a same-round race; the row exists now, which is what the
		// model asked for.
		return fmt.Sprintf("Category '%s' already exists.", name)
	}
	if err != nil {
		return fmt.Sprintf("Error adding category '%s': %v", name, err)
	}
	return fmt.Sprintf("Successfully added category: %s.", cat.Name)
}

func (e *Executor) deleteCategory(scope turnScope, name string) string {
	cat, err := e.findCategoryByName(scope, name)
	if err != nil {
		return errString("finding category", err)
	}
	if cat == nil {
		return fmt.Sprintf("Error: Category '%s' not found.", name)
	}

	if err := e.categories.Delete(scope.userID, cat.ID); err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			return fmt.Sprintf("Cannot delete category '%s' - %s", name, trimSentinel(err))
		}
		return fmt.Sprintf("Error deleting category '%s': %v", name, err)
	}
	return fmt.Sprintf("Successfully deleted category: %s.", name)
}

func (e *Executor) findCategoryByName(scope turnScope, name string) (*model.Category, error) {
	categories, err := e.categories.ListByList(scope.userID, scope.listID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i], nil
		}
	}
	return nil, nil
}

func errString(doing string, err error) string {
	return fmt.Sprintf("Error %s: %v", doing, err)
}

// trimSentinel strips the leading sentinel text ("invalid state: ") so tool
// results read as plain sentences.
func trimSentinel(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:] + "."
	}
	return msg + "."
}
