package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/logger"

	"github.com/xuri/excelize/v2"
)

type marketplaceUsecase struct {
	companies    domain.SaasCompanyRepository
	partners     domain.PartnerRepository
	partnerships domain.PartnershipRepository
	notifier     domain.PartnershipNotifier
}

// NewMarketplaceUsecase accepts a nil notifier; connect requests are then stored without email.
func NewMarketplaceUsecase(
	companies domain.SaasCompanyRepository,
	partners domain.PartnerRepository,
	partnerships domain.PartnershipRepository,
	notifier domain.PartnershipNotifier,
) domain.MarketplaceUsecase {
	return &marketplaceUsecase{
		companies:    companies,
		partners:     partners,
		partnerships: partnerships,
		notifier:     notifier,
	}
}

// ============================================================================
// Listings
// ============================================================================

// PartnerMarketplace splits every matching partner into connected and available
// by membership in the company's partnerships.
func (u *marketplaceUsecase) PartnerMarketplace(ctx context.Context, ownerID string, filter domain.PartnerFilter) (*domain.PartnerMarketplace, error) {
	company, err := loadCompany(ctx, u.companies, ownerID)
	if err != nil {
		return nil, err
	}

	links, err := u.partnerships.ListBySaasID(ctx, company.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	byPartner := make(map[string]domain.Partnership, len(links))
	for _, p := range links {
		byPartner[p.PartnerID] = p
	}

	partners, err := u.partners.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := &domain.PartnerMarketplace{
		Connected: []domain.ConnectedPartner{},
		Available: []domain.PartnerListing{},
	}
	for i := range partners {
		listing := partners[i].Listing()
		if link, ok := byPartner[partners[i].ID]; ok {
			result.Connected = append(result.Connected, domain.ConnectedPartner{
				PartnerListing: listing,
				PartnershipID:  link.ID,
				Status:         link.Status,
				InitiatedBy:    link.InitiatedBy,
			})
			continue
		}
		result.Available = append(result.Available, listing)
	}
	return result, nil
}

func (u *marketplaceUsecase) ProgramMarketplace(ctx context.Context, profileID string, filter domain.CompanyFilter) (*domain.ProgramMarketplace, error) {
	partner, err := loadPartner(ctx, u.partners, profileID)
	if err != nil {
		return nil, err
	}

	links, err := u.partnerships.ListByPartnerID(ctx, partner.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	bySaas := make(map[string]domain.Partnership, len(links))
	for _, p := range links {
		bySaas[p.SaasID] = p
	}

	companies, err := u.companies.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := &domain.ProgramMarketplace{
		Connected: []domain.ConnectedProgram{},
		Available: []domain.ProgramListing{},
	}
	for i := range companies {
		listing := companies[i].Listing()
		if link, ok := bySaas[companies[i].ID]; ok {
			result.Connected = append(result.Connected, domain.ConnectedProgram{
				ProgramListing: listing,
				PartnershipID:  link.ID,
				Status:         link.Status,
				InitiatedBy:    link.InitiatedBy,
			})
			continue
		}
		result.Available = append(result.Available, listing)
	}
	return result, nil
}

// ============================================================================
// Connect flow
// ============================================================================

func (u *marketplaceUsecase) ConnectWithPartner(ctx context.Context, ownerID, partnerID string) (*domain.Partnership, error) {
	company, err := loadCompany(ctx, u.companies, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := u.partners.GetByID(ctx, partnerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Partner not found")
		}
		return nil, apperror.Internal(err)
	}

	return u.connect(ctx, &domain.Partnership{
		SaasID:      company.ID,
		PartnerID:   partnerID,
		Status:      domain.StatusPending,
		InitiatedBy: domain.RoleSaaS,
	})
}

func (u *marketplaceUsecase) ConnectWithProgram(ctx context.Context, profileID, saasID string) (*domain.Partnership, error) {
	partner, err := loadPartner(ctx, u.partners, profileID)
	if err != nil {
		return nil, err
	}
	if _, err := u.companies.GetByID(ctx, saasID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Program not found")
		}
		return nil, apperror.Internal(err)
	}

	return u.connect(ctx, &domain.Partnership{
		SaasID:      saasID,
		PartnerID:   partner.ID,
		Status:      domain.StatusPending,
		InitiatedBy: domain.RoleAffiliate,
	})
}

// connect stores the request; the unique pair index turns a repeat into 409.
// A failed notification does not undo the partnership.
func (u *marketplaceUsecase) connect(ctx context.Context, partnership *domain.Partnership) (*domain.Partnership, error) {
	if err := u.partnerships.Create(ctx, partnership); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("A partnership request already exists")
		}
		return nil, apperror.New(http.StatusInternalServerError, "Failed to create partnership request", err)
	}

	if u.notifier != nil {
		if err := u.notifier.NotifyPartnershipRequested(ctx, partnership); err != nil {
			logger.Log.Warnw("failed to enqueue partnership notification", "partnership_id", partnership.ID, "error", err)
		}
	}
	return partnership, nil
}

// RespondToRequest lets the invited side accept or reject a pending request.
func (u *marketplaceUsecase) RespondToRequest(ctx context.Context, profileID string, role domain.Role, partnershipID string, status domain.PartnershipStatus) (*domain.Partnership, error) {
	if status != domain.StatusActive && status != domain.StatusRejected {
		return nil, apperror.BadRequest("status must be active or rejected")
	}

	partnership, err := loadPartnership(ctx, u.partnerships, partnershipID)
	if err != nil {
		return nil, err
	}
	if err := u.requireMember(ctx, profileID, role, partnership); err != nil {
		return nil, err
	}
	if partnership.InitiatedBy == role {
		return nil, apperror.Forbidden("Only the invited side can respond to this request")
	}
	if partnership.Status != domain.StatusPending {
		return nil, apperror.Conflict("This request has already been answered")
	}

	if err := u.partnerships.UpdateStatus(ctx, partnership.ID, status); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to update partnership", err)
	}
	partnership.Status = status
	return partnership, nil
}

func (u *marketplaceUsecase) requireMember(ctx context.Context, profileID string, role domain.Role, partnership *domain.Partnership) error {
	side, err := sideID(ctx, u.companies, u.partners, profileID, role)
	if err != nil {
		return err
	}
	if !isMember(partnership, role, side) {
		return apperror.Forbidden("You are not part of this partnership")
	}
	return nil
}

// ============================================================================
// Export
// ============================================================================

var exportColumns = []string{"NAME", "COUNTRY", "PLATFORM", "PLATFORM URL", "AUDIENCE", "NICHE", "STATUS", "REQUESTED BY", "SINCE"}

// ExportPartners writes the company's connected partners to an xlsx sheet.
func (u *marketplaceUsecase) ExportPartners(ctx context.Context, ownerID string) ([]byte, string, error) {
	company, err := loadCompany(ctx, u.companies, ownerID)
	if err != nil {
		return nil, "", err
	}
	links, err := u.partnerships.ListBySaasID(ctx, company.ID)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	partners, err := u.partners.List(ctx, domain.PartnerFilter{})
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	byID := make(map[string]*domain.Partner, len(partners))
	for i := range partners {
		byID[partners[i].ID] = &partners[i]
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Partners"
	f.SetSheetName("Sheet1", sheetName)

	for i, header := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	rowIdx := 2
	for _, link := range links {
		p, ok := byID[link.PartnerID]
		if !ok {
			continue
		}
		row := []interface{}{
			p.DisplayName(),
			deref(p.Country),
			deref(p.PromotionPlatform),
			deref(p.PlatformURL),
			deref(p.AudienceSize),
			deref(p.Niche),
			string(link.Status),
			string(link.InitiatedBy),
			link.CreatedAt.Format("2006-01-02"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		rowIdx++
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, "", fmt.Errorf("failed to write export row: %w", err)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("partners_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// ============================================================================
// Shared helpers
// ============================================================================

func loadPartnership(ctx context.Context, partnerships domain.PartnershipRepository, id string) (*domain.Partnership, error) {
	partnership, err := partnerships.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Partnership not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return partnership, nil
}

// sideID resolves the caller's company id or partner id.
func sideID(ctx context.Context, companies domain.SaasCompanyRepository, partners domain.PartnerRepository, profileID string, role domain.Role) (string, error) {
	switch role {
	case domain.RoleSaaS:
		company, err := loadCompany(ctx, companies, profileID)
		if err != nil {
			return "", err
		}
		return company.ID, nil
	case domain.RoleAffiliate:
		partner, err := loadPartner(ctx, partners, profileID)
		if err != nil {
			return "", err
		}
		return partner.ID, nil
	}
	return "", apperror.Forbidden("Unknown account type")
}

func isMember(p *domain.Partnership, role domain.Role, side string) bool {
	if role == domain.RoleSaaS {
		return p.SaasID == side
	}
	return p.PartnerID == side
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
