package postgres

import (
	"context"
	"fmt"
	"time"

	"partnerz-backend/internal/domain"

	"github.com/google/uuid"
)

type profileRepo struct {
	db DB
}

func NewProfileRepository(db DB) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, email, role, marketing_consent, created_at, updated_at`

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var p domain.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.Role, &p.MarketingConsent, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	var p domain.Profile
	err := r.db.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.Role, &p.MarketingConsent, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// Provision creates the profile and its empty role row together. Either both rows
// exist afterwards or neither does.
func (r *profileRepo) Provision(ctx context.Context, p *domain.Profile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, email, role, marketing_consent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Email, p.Role, p.MarketingConsent, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}

	switch p.Role {
	case domain.RoleSaaS:
		_, err = tx.Exec(ctx, `
			INSERT INTO saas_companies (id, owner_id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)`,
			uuid.NewString(), p.ID, domain.DefaultCompanyName, now,
		)
	case domain.RoleAffiliate:
		_, err = tx.Exec(ctx, `
			INSERT INTO partners (id, profile_id, created_at, updated_at)
			VALUES ($1, $2, $3, $3)`,
			uuid.NewString(), p.ID, now,
		)
	default:
		return fmt.Errorf("provision: unsupported role %q", p.Role)
	}
	if err != nil {
		return mapError(err)
	}

	return tx.Commit(ctx)
}
