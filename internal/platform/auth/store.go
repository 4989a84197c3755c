package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

type User struct {
	ID           string // ULID
	EmployeeID   string // EMP001, EMP002, ...
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Department   string // free-text label, may be empty
	CreatedAt    time.Time
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	Count(ctx context.Context) (int64, error)
	ListByRoleAndDepartment(ctx context.Context, role, department string) ([]User, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) UserStore {
	return &Store{db: db}
}

const userCols = `id, employee_id, name, email, password_hash, role, department, created_at`

func (s *Store) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.EmployeeID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
SELECT `+userCols+` FROM users WHERE email = ? LIMIT 1`, email))
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
SELECT `+userCols+` FROM users WHERE id = ? LIMIT 1`, id))
}

func (s *Store) Create(ctx context.Context, u *User) error {
	const q = `
INSERT INTO users (id, employee_id, name, email, password_hash, role, department, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		u.ID, u.EmployeeID, u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.CreatedAt)
	return err
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *Store) ListByRoleAndDepartment(ctx context.Context, role, department string) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+userCols+` FROM users
WHERE role = ? AND department = ?
ORDER BY employee_id ASC`, role, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.EmployeeID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
