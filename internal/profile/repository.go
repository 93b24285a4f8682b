package profile

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository handles database operations for user profiles
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new profile repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const joinedColumns = `
	p.id, p.user_id, p.province, p.district, p.sector, p.cell, p.village,
	p.about, p.profile_image, p.created_at, p.updated_at,
	u.fullname, u.email, u.phone`

func scanProfile(row interface{ Scan(...interface{}) error }) (*ProfileResponse, error) {
	var p ProfileResponse
	err := row.Scan(
		&p.ID, &p.UserID, &p.Province, &p.District, &p.Sector, &p.Cell, &p.Village,
		&p.About, &p.ProfileImage, &p.CreatedAt, &p.UpdatedAt,
		&p.FullName, &p.Email, &p.Phone,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID retrieves a profile joined with its user's account details
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	query := `
		SELECT ` + joinedColumns + `
		FROM user_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`

	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// Upsert creates or updates a user's profile and, when account fields are
// supplied, updates the user record in the same transaction.
func (r *Repository) Upsert(ctx context.Context, in *UpsertInput) (*ProfileResponse, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if in.FullName != nil || in.Email != nil || in.Phone != nil {
		userQuery := `
			UPDATE users
			SET fullname = COALESCE($2, fullname),
			    email = COALESCE($3, email),
			    phone = COALESCE($4, phone)
			WHERE id = $1`

		if _, err := tx.ExecContext(ctx, userQuery, in.UserID, in.FullName, in.Email, in.Phone); err != nil {
			return nil, err
		}
	}

	profileQuery := `
		INSERT INTO user_profiles (id, user_id, province, district, sector, cell, village, about, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			province = EXCLUDED.province,
			district = EXCLUDED.district,
			sector = EXCLUDED.sector,
			cell = EXCLUDED.cell,
			village = EXCLUDED.village,
			about = COALESCE(EXCLUDED.about, user_profiles.about),
			profile_image = COALESCE(EXCLUDED.profile_image, user_profiles.profile_image),
			updated_at = NOW()`

	_, err = tx.ExecContext(ctx, profileQuery,
		uuid.New(), in.UserID, in.Province, in.District, in.Sector, in.Cell, in.Village, in.About, in.Image)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByUserID(ctx, in.UserID)
}
