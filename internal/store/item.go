package store

import (
	"database/sql"
	"fmt"

	"github.com/ptarling/trolley/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var item model.Item
	var priceMatch, ticked int
	var createdBy, updatedBy sql.NullInt64

	err := scanner.Scan(
		&item.ID, &item.Name, &item.Note, &priceMatch, &ticked,
		&item.CategoryID, &createdBy, &updatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.PriceMatch = priceMatch != 0
	item.IsTicked = ticked != 0
	if createdBy.Valid {
		item.CreatedBy = &createdBy.Int64
	}
	if updatedBy.Valid {
		item.UpdatedBy = &updatedBy.Int64
	}
	return &item, nil
}

const itemCols = `id, name, note, price_match, is_ticked, category_id, created_by, updated_by, created_at, updated_at`

func (s *ItemStore) Create(categoryID int64, name, note string, priceMatch bool, createdBy int64) (*model.Item, error) {
	pm := 0
	if priceMatch {
		pm = 1
	}
	result, err := s.db.Exec(
		`INSERT INTO items (name, note, price_match, category_id, created_by) VALUES (?, ?, ?, ?, ?)`,
		name, note, pm, categoryID, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) GetByID(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) ListByCategory(categoryID int64) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM items WHERE category_id = ? ORDER BY is_ticked ASC, name ASC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListByList returns every item in the list across all categories.
func (s *ItemStore) ListByList(listID int64) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.name, i.note, i.price_match, i.is_ticked, i.category_id, i.created_by, i.updated_by, i.created_at, i.updated_at
		 FROM items i
		 JOIN categories c ON c.id = i.category_id
		 WHERE c.list_id = ?
		 ORDER BY c.name ASC, i.is_ticked ASC, i.name ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items by list: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// SearchInList does a case-insensitive name match scoped to a list and
// returns every match. Callers handle ambiguity; this lookup never picks one.
func (s *ItemStore) SearchInList(listID int64, name string) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT i.id, i.name, i.note, i.price_match, i.is_ticked, i.category_id, i.created_by, i.updated_by, i.created_at, i.updated_at
		 FROM items i
		 JOIN categories c ON c.id = i.category_id
		 WHERE c.list_id = ? AND i.name = ? COLLATE NOCASE
		 ORDER BY i.id ASC`,
		listID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// GetInCategory finds an item by case-insensitive name within one category.
func (s *ItemStore) GetInCategory(categoryID int64, name string) (*model.Item, error) {
	row := s.db.QueryRow(
		`SELECT `+itemCols+` FROM items WHERE category_id = ? AND name = ? COLLATE NOCASE`,
		categoryID, name,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item in category: %w", err)
	}
	return item, nil
}

func (s *ItemStore) Update(id int64, name, note string, priceMatch, ticked bool, categoryID, updatedBy int64) (*model.Item, error) {
	pm, tk := 0, 0
	if priceMatch {
		pm = 1
	}
	if ticked {
		tk = 1
	}
	_, err := s.db.Exec(
		`UPDATE items SET name = ?, note = ?, price_match = ?, is_ticked = ?, category_id = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, note, pm, tk, categoryID, updatedBy, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) SetTicked(id int64, ticked bool, updatedBy int64) (*model.Item, error) {
	tk := 0
	if ticked {
		tk = 1
	}
	_, err := s.db.Exec(
		`UPDATE items SET is_ticked = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		tk, updatedBy, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set ticked: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
