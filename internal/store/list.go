package store

import (
	"database/sql"
	"fmt"

	"github.com/ptarling/trolley/internal/model"
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

func scanShoppingList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	err := scanner.Scan(&l.ID, &l.Name, &l.ListType, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListMember(scanner interface{ Scan(...any) error }) (*model.ListMember, error) {
	var m model.ListMember
	err := scanner.Scan(&m.ListID, &m.UserID, &m.AddedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const listCols = `id, name, list_type, owner_id, created_at, updated_at`
const listMemberCols = `list_id, user_id, added_at`

// Create inserts a list and the owner's membership row in one transaction.
// The owner is always a member; the two rows never exist separately.
func (s *ListStore) Create(name, listType string, ownerID int64) (*model.ShoppingList, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO lists (name, list_type, owner_id) VALUES (?, ?, ?)`,
		name, listType, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO list_members (list_id, user_id) VALUES (?, ?)`,
		id, ownerID,
	); err != nil {
		return nil, fmt.Errorf("insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *ListStore) GetByID(id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE id = ?`, id)
	l, err := scanShoppingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// ListForUser returns every list the user is a member of, owned or shared.
func (s *ListStore) ListForUser(userID int64) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(
		`SELECT l.id, l.name, l.list_type, l.owner_id, l.created_at, l.updated_at FROM lists l
		 JOIN list_members m ON m.list_id = l.id
		 WHERE m.user_id = ?
		 ORDER BY l.name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists for user: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ListStore) Update(id int64, name, listType string) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`UPDATE lists SET name = ?, list_type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, listType, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the list; memberships, categories, and items cascade away.
func (s *ListStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// --- Membership methods ---

func (s *ListStore) AddMember(listID, userID int64) (*model.ListMember, error) {
	_, err := s.db.Exec(
		`INSERT INTO list_members (list_id, user_id) VALUES (?, ?)`,
		listID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return s.GetMember(listID, userID)
}

func (s *ListStore) GetMember(listID, userID int64) (*model.ListMember, error) {
	row := s.db.QueryRow(
		`SELECT `+listMemberCols+` FROM list_members WHERE list_id = ? AND user_id = ?`,
		listID, userID,
	)
	m, err := scanListMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *ListStore) RemoveMember(listID, userID int64) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM list_members WHERE list_id = ? AND user_id = ?`,
		listID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("remove member: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListMembers returns the list's members joined with usernames.
func (s *ListStore) ListMembers(listID int64) ([]model.ListMemberInfo, error) {
	rows, err := s.db.Query(
		`SELECT m.list_id, m.user_id, u.username, m.added_at
		 FROM list_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.list_id = ?
		 ORDER BY m.added_at ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.ListMemberInfo
	for rows.Next() {
		var m model.ListMemberInfo
		if err := rows.Scan(&m.ListID, &m.UserID, &m.Username, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
