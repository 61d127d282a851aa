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

type saasCompanyRepo struct {
	db DB
}

func NewSaasCompanyRepository(db DB) domain.SaasCompanyRepository {
	return &saasCompanyRepo{db: db}
}

const companyColumns = `
	id, owner_id, name, logo_url, website, description, short_description, long_description,
	category, year_founded, commission_model, commission_rate, cookie_duration, landing_page_url,
	tracking_method, partner_program_url, exclusive_deal, technical_contact, geo_restrictions,
	supported_languages, onboarding_completed, created_at, updated_at`

func scanCompany(row pgx.Row) (*domain.SaasCompany, error) {
	var c domain.SaasCompany
	var languages []string
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.LogoURL, &c.Website, &c.Description, &c.ShortDescription, &c.LongDescription,
		&c.Category, &c.YearFounded, &c.CommissionModel, &c.CommissionRate, &c.CookieDuration, &c.LandingPageURL,
		&c.TrackingMethod, &c.PartnerProgramURL, &c.ExclusiveDeal, &c.TechnicalContact, &c.GeoRestrictions,
		pq.Array(&languages), &c.OnboardingCompleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.SupportedLanguages = languages
	return &c, nil
}

func (r *saasCompanyRepo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.SaasCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM saas_companies WHERE owner_id = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *saasCompanyRepo) GetByID(ctx context.Context, id string) (*domain.SaasCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM saas_companies WHERE id = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *saasCompanyRepo) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.SaasCompany, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR short_description ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		conditions = append(conditions, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}

	query := `SELECT ` + companyColumns + ` FROM saas_companies`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.SaasCompany{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}
	return companies, nil
}

func (r *saasCompanyRepo) Update(ctx context.Context, c *domain.SaasCompany) error {
	c.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE saas_companies SET
			name = $2, logo_url = $3, website = $4, description = $5, short_description = $6,
			long_description = $7, category = $8, year_founded = $9, commission_model = $10,
			commission_rate = $11, cookie_duration = $12, landing_page_url = $13, tracking_method = $14,
			partner_program_url = $15, exclusive_deal = $16, technical_contact = $17,
			geo_restrictions = $18, supported_languages = $19, onboarding_completed = $20,
			updated_at = $21
		WHERE owner_id = $1`

	tag, err := r.db.Exec(ctx, query,
		c.OwnerID, c.Name, c.LogoURL, c.Website, c.Description, c.ShortDescription,
		c.LongDescription, c.Category, c.YearFounded, c.CommissionModel,
		c.CommissionRate, c.CookieDuration, c.LandingPageURL, c.TrackingMethod,
		c.PartnerProgramURL, c.ExclusiveDeal, c.TechnicalContact,
		c.GeoRestrictions, textArray(c.SupportedLanguages), c.OnboardingCompleted,
		c.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// textArray never sends NULL for the NOT NULL text[] columns.
func textArray(values []string) interface{} {
	if values == nil {
		values = []string{}
	}
	return pq.Array(values)
}
