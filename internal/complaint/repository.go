package complaint

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rossahq/complaintdesk/internal/notification"
)

const complaintColumns = `id, user_id, title, description, complaint_type, address, status, assigned_to, notes, media_type, media_url, created_at, updated_at`

// Repository handles complaint data persistence. Status changes and the
// notifications they fan out to are written in a single transaction.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new complaint repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanComplaint(row interface{ Scan(...interface{}) error }) (*Complaint, error) {
	c := &Complaint{}
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Address,
		&c.Status,
		&c.AssignedTo,
		&c.Notes,
		&c.MediaType,
		&c.MediaURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new complaint and its fan-out drafts as one transaction
func (r *Repository) Create(ctx context.Context, c *Complaint, drafts []*notification.Draft) (*Complaint, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO complaints (id, user_id, title, description, complaint_type, address, status, media_type, media_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + complaintColumns

	created, err := scanComplaint(tx.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Title, c.Description, c.Category, c.Address, c.Status, c.MediaType, c.MediaURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	for _, d := range drafts {
		if _, err := notification.CreateTx(ctx, tx, d); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit complaint: %w", err)
	}

	return created, nil
}

// GetByID retrieves a complaint by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`

	c, err := scanComplaint(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}

	return c, nil
}

// Transition applies a lifecycle change atomically. The current row is
// re-read under a row lock, mutate validates against that fresh state and
// returns the notification drafts to fan out, and the update plus all
// notification inserts commit as one unit.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, mutate func(c *Complaint) ([]*notification.Draft, error)) (*Complaint, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1 FOR UPDATE`

	c, err := scanComplaint(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to lock complaint: %w", err)
	}

	drafts, err := mutate(c)
	if err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE complaints
		SET status = $2, assigned_to = $3, notes = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + complaintColumns

	updated, err := scanComplaint(tx.QueryRowContext(ctx, updateQuery, id, c.Status, c.AssignedTo, c.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	for _, d := range drafts {
		if _, err := notification.CreateTx(ctx, tx, d); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return updated, nil
}

func (r *Repository) queryComplaints(ctx context.Context, query string, args ...interface{}) ([]*Complaint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*Complaint
	for rows.Next() {
		c := &Complaint{}
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Title,
			&c.Description,
			&c.Category,
			&c.Address,
			&c.Status,
			&c.AssignedTo,
			&c.Notes,
			&c.MediaType,
			&c.MediaURL,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.UserFullName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}

	return complaints, nil
}

const complaintJoinColumns = `c.id, c.user_id, c.title, c.description, c.complaint_type, c.address, c.status, c.assigned_to, c.notes, c.media_type, c.media_url, c.created_at, c.updated_at, u.fullname`

// ListAll retrieves all complaints with their submitter's name
func (r *Repository) ListAll(ctx context.Context) ([]*Complaint, error) {
	query := `
		SELECT ` + complaintJoinColumns + `
		FROM complaints c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC
	`
	return r.queryComplaints(ctx, query)
}

// ListByUser retrieves all complaints submitted by a user
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Complaint, error) {
	query := `
		SELECT ` + complaintJoinColumns + `
		FROM complaints c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`
	return r.queryComplaints(ctx, query, userID)
}

// ListByEmployee retrieves all complaints assigned to an employee code
func (r *Repository) ListByEmployee(ctx context.Context, employeeCode string) ([]*Complaint, error) {
	query := `
		SELECT ` + complaintJoinColumns + `
		FROM complaints c
		JOIN users u ON u.id = c.user_id
		WHERE c.assigned_to = $1
		ORDER BY c.created_at DESC
	`
	return r.queryComplaints(ctx, query, employeeCode)
}

// ListRecentCommon retrieves the most recent common complaints
func (r *Repository) ListRecentCommon(ctx context.Context, limit int) ([]*Complaint, error) {
	query := `
		SELECT ` + complaintJoinColumns + `
		FROM complaints c
		JOIN users u ON u.id = c.user_id
		WHERE c.complaint_type = 'common'
		ORDER BY c.created_at DESC
		LIMIT $1
	`
	return r.queryComplaints(ctx, query, limit)
}

// UserStats aggregates complaint counts for one user
func (r *Repository) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'assigned'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'done'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE complaint_type = 'common'),
			COUNT(*) FILTER (WHERE complaint_type = 'private'),
			COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days')
		FROM complaints
		WHERE user_id = $1
	`

	stats := &UserStats{UserID: userID.String()}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Assigned,
		&stats.InProgress,
		&stats.Done,
		&stats.Rejected,
		&stats.Common,
		&stats.Private,
		&stats.Recent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return stats, nil
}

// SystemStats aggregates complaint counts across the whole system
func (r *Repository) SystemStats(ctx context.Context) (*SystemStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'assigned'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'done'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE complaint_type = 'common'),
			COUNT(*) FILTER (WHERE complaint_type = 'private'),
			COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days')
		FROM complaints
	`

	stats := &SystemStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Assigned,
		&stats.InProgress,
		&stats.Done,
		&stats.Rejected,
		&stats.Common,
		&stats.Private,
		&stats.Recent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get system stats: %w", err)
	}

	return stats, nil
}

// Trend returns the user's complaint counts for each of the last 7 days
func (r *Repository) Trend(ctx context.Context, userID uuid.UUID) ([]TrendPoint, error) {
	query := `
		SELECT DATE(created_at), COUNT(*)
		FROM complaints
		WHERE user_id = $1 AND created_at >= NOW() - INTERVAL '7 days'
		GROUP BY DATE(created_at)
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trend: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		counts[day.Format("2006-01-02")] = count
	}

	// One point per day, oldest first, zero-filled
	trend := make([]TrendPoint, 0, 7)
	today := time.Now().UTC()
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		trend = append(trend, TrendPoint{
			Day:   day.Format("Mon"),
			Count: counts[day.Format("2006-01-02")],
		})
	}

	return trend, nil
}
