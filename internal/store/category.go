package store

import (
	"database/sql"
	"fmt"

	"github.com/ptarling/trolley/internal/model"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var createdBy, updatedBy sql.NullInt64
	err := scanner.Scan(&c.ID, &c.Name, &c.ListID, &createdBy, &updatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		c.CreatedBy = &createdBy.Int64
	}
	if updatedBy.Valid {
		c.UpdatedBy = &updatedBy.Int64
	}
	return &c, nil
}

const categoryCols = `id, name, list_id, created_by, updated_by, created_at, updated_at`

// Create inserts a category. A duplicate name within the list violates the
// (list_id, name) unique constraint; callers detect it with IsUniqueViolation.
func (s *CategoryStore) Create(listID int64, name string, createdBy int64) (*model.Category, error) {
	result, err := s.db.Exec(
		`INSERT INTO categories (name, list_id, created_by) VALUES (?, ?, ?)`,
		name, listID, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CategoryStore) GetByID(id int64) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByName does an exact-match name lookup within a list.
func (s *CategoryStore) GetByName(listID int64, name string) (*model.Category, error) {
	row := s.db.QueryRow(
		`SELECT `+categoryCols+` FROM categories WHERE list_id = ? AND name = ?`,
		listID, name,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) ListByList(listID int64) ([]model.Category, error) {
	rows, err := s.db.Query(
		`SELECT `+categoryCols+` FROM categories WHERE list_id = ? ORDER BY name ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) Rename(id int64, name string, updatedBy int64) (*model.Category, error) {
	_, err := s.db.Exec(
		`UPDATE categories SET name = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, updatedBy, id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return s.GetByID(id)
}

func (s *CategoryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CountItems is an explicit count query; the delete-guard never materializes
// the category's items.
func (s *CategoryStore) CountItems(id int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE category_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}
