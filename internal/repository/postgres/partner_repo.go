package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"partnerz-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

type partnerRepo struct {
	db DB
}

func NewPartnerRepository(db DB) domain.PartnerRepository {
	return &partnerRepo{db: db}
}

const partnerColumns = `
	id, profile_id, full_name, avatar_url, phone, country, promotion_platform, platform_url,
	audience_size, niche, payment_method, payment_details, tax_info, preferred_currency,
	bio, skills, onboarding_completed, created_at, updated_at`

func scanPartner(row pgx.Row) (*domain.Partner, error) {
	var p domain.Partner
	var skills []string
	err := row.Scan(
		&p.ID, &p.ProfileID, &p.FullName, &p.AvatarURL, &p.Phone, &p.Country, &p.PromotionPlatform, &p.PlatformURL,
		&p.AudienceSize, &p.Niche, &p.PaymentMethod, &p.PaymentDetails, &p.TaxInfo, &p.PreferredCurrency,
		&p.Bio, pq.Array(&skills), &p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Skills = skills
	return &p, nil
}

func (r *partnerRepo) GetByProfileID(ctx context.Context, profileID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE profile_id = $1`
	p, err := scanPartner(r.db.QueryRow(ctx, query, profileID))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *partnerRepo) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	p, err := scanPartner(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *partnerRepo) List(ctx context.Context, filter domain.PartnerFilter) ([]domain.Partner, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(full_name ILIKE $%d OR niche ILIKE $%d OR bio ILIKE $%d OR array_to_string(skills, ',') ILIKE $%d)", n, n, n, n))
	}
	if niche := strings.TrimSpace(filter.Niche); niche != "" {
		args = append(args, "%"+niche+"%")
		conditions = append(conditions, fmt.Sprintf("niche ILIKE $%d", len(args)))
	}
	if platform := strings.TrimSpace(filter.Platform); platform != "" {
		args = append(args, platform)
		conditions = append(conditions, fmt.Sprintf("lower(promotion_platform) = lower($%d)", len(args)))
	}
	if country := strings.TrimSpace(filter.Country); country != "" {
		args = append(args, country)
		conditions = append(conditions, fmt.Sprintf("lower(country) = lower($%d)", len(args)))
	}

	query := `SELECT ` + partnerColumns + ` FROM partners`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	partners := []domain.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners = append(partners, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner rows: %w", err)
	}
	return partners, nil
}

func (r *partnerRepo) Update(ctx context.Context, p *domain.Partner) error {
	p.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE partners SET
			full_name = $2, avatar_url = $3, phone = $4, country = $5, promotion_platform = $6,
			platform_url = $7, audience_size = $8, niche = $9, payment_method = $10,
			payment_details = $11, tax_info = $12, preferred_currency = $13, bio = $14,
			skills = $15, onboarding_completed = $16, updated_at = $17
		WHERE profile_id = $1`

	tag, err := r.db.Exec(ctx, query,
		p.ProfileID, p.FullName, p.AvatarURL, p.Phone, p.Country, p.PromotionPlatform,
		p.PlatformURL, p.AudienceSize, p.Niche, p.PaymentMethod,
		p.PaymentDetails, p.TaxInfo, p.PreferredCurrency, p.Bio,
		textArray(p.Skills), p.OnboardingCompleted, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
