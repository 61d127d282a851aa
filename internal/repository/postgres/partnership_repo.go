package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partnerz-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type partnershipRepo struct {
	db DB
}

func NewPartnershipRepository(db DB) domain.PartnershipRepository {
	return &partnershipRepo{db: db}
}

const partnershipColumns = `id, saas_id, partner_id, status, initiated_by, created_at, updated_at`

func scanPartnership(row pgx.Row) (*domain.Partnership, error) {
	var p domain.Partnership
	if err := row.Scan(&p.ID, &p.SaasID, &p.PartnerID, &p.Status, &p.InitiatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partnershipRepo) ListBySaasID(ctx context.Context, saasID string) ([]domain.Partnership, error) {
	return r.list(ctx, `SELECT `+partnershipColumns+` FROM partnerships WHERE saas_id = $1 ORDER BY created_at DESC`, saasID)
}

func (r *partnershipRepo) ListByPartnerID(ctx context.Context, partnerID string) ([]domain.Partnership, error) {
	return r.list(ctx, `SELECT `+partnershipColumns+` FROM partnerships WHERE partner_id = $1 ORDER BY created_at DESC`, partnerID)
}

func (r *partnershipRepo) list(ctx context.Context, query string, id string) ([]domain.Partnership, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list partnerships: %w", err)
	}
	defer rows.Close()

	result := []domain.Partnership{}
	for rows.Next() {
		p, err := scanPartnership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partnership row: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partnership rows: %w", err)
	}
	return result, nil
}

func (r *partnershipRepo) GetByID(ctx context.Context, id string) (*domain.Partnership, error) {
	p, err := scanPartnership(r.db.QueryRow(ctx, `SELECT `+partnershipColumns+` FROM partnerships WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// Create inserts a partnership unless the pair is already linked. The unique
// (saas_id, partner_id) constraint makes concurrent connects collapse to one row.
func (r *partnershipRepo) Create(ctx context.Context, p *domain.Partnership) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	query := `
		INSERT INTO partnerships (id, saas_id, partner_id, status, initiated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (saas_id, partner_id) DO NOTHING
		RETURNING id`

	var id string
	err := r.db.QueryRow(ctx, query, p.ID, p.SaasID, p.PartnerID, p.Status, p.InitiatedBy, now).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConflict
		}
		return mapError(err)
	}
	return nil
}

func (r *partnershipRepo) UpdateStatus(ctx context.Context, id string, status domain.PartnershipStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE partnerships SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
