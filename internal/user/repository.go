package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const userColumns = `id, fullname, phone, email, password, employee_code, role, created_at`

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Phone,
		&user.Email,
		&user.PasswordHash,
		&user.EmployeeCode,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (id, fullname, phone, email, password, employee_code, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.ID, u.FullName, u.Phone, u.Email, u.PasswordHash, u.EmployeeCode, u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by their email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByEmployeeCode retrieves a user with role=employee by their employee code
func (r *Repository) GetByEmployeeCode(ctx context.Context, code string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE employee_code = $1 AND role = 'employee'`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by employee code: %w", err)
	}

	return user, nil
}

// GetByIdentifier retrieves a user by email or employee code.
// Identifiers containing '@' are treated as emails.
func (r *Repository) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	if strings.Contains(identifier, "@") {
		return r.GetByEmail(ctx, identifier)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE employee_code = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, identifier))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return user, nil
}

// List retrieves all users, newest first
func (r *Repository) List(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// ListAdmins retrieves all users with role=admin
func (r *Repository) ListAdmins(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'admin'`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, user)
	}

	return admins, nil
}

// ListEmployees retrieves all employees with their assigned complaint counts
func (r *Repository) ListEmployees(ctx context.Context) ([]*EmployeeResponse, error) {
	query := `
		SELECT u.id, u.fullname, u.email, u.employee_code,
		       COUNT(c.id) AS assigned_count
		FROM users u
		LEFT JOIN complaints c ON c.assigned_to = u.employee_code
		WHERE u.role = 'employee'
		GROUP BY u.id, u.fullname, u.email, u.employee_code
		ORDER BY u.fullname
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*EmployeeResponse
	for rows.Next() {
		var id uuid.UUID
		emp := &EmployeeResponse{}
		if err := rows.Scan(&id, &emp.FullName, &emp.Email, &emp.EmployeeCode, &emp.AssignedCount); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		emp.ID = id.String()
		employees = append(employees, emp)
	}

	return employees, nil
}

// UpdateRole changes a user's role. Demoting to customer clears the employee code.
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error) {
	query := `
		UPDATE users
		SET role = $2,
		    employee_code = CASE WHEN $2 = 'customer' THEN NULL ELSE employee_code END
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, role))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return user, nil
}

// UpdateEmployeeCode changes a user's employee code
func (r *Repository) UpdateEmployeeCode(ctx context.Context, id uuid.UUID, code string) (*User, error) {
	query := `
		UPDATE users
		SET employee_code = $2
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update employee code: %w", err)
	}

	return user, nil
}

// UpdatePasswordHash replaces a user's stored password hash
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
