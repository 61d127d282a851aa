package v1

import (
	"fmt"
	"net/http"

	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MarketplaceHandler struct {
	marketplaceUC domain.MarketplaceUsecase
}

func NewMarketplaceHandler(protected, saas, affiliate *gin.RouterGroup, marketplaceUC domain.MarketplaceUsecase) {
	handler := &MarketplaceHandler{marketplaceUC: marketplaceUC}

	saas.GET("/marketplace", handler.ListPartners)
	saas.POST("/marketplace/:partnerId/connect", handler.ConnectWithPartner)
	saas.GET("/partners/export", handler.ExportPartners)

	affiliate.GET("/marketplace", handler.ListPrograms)
	affiliate.POST("/marketplace/:saasId/connect", handler.ConnectWithProgram)

	protected.PATCH("/partnerships/:id", handler.Respond)
}

type RespondRequest struct {
	Status domain.PartnershipStatus `json:"status" binding:"required,oneof=active rejected"`
}

// ListPartners godoc
// @Summary      Partner marketplace
// @Description  Every partner, split into those already linked to the company and those available.
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "Name or niche search"
// @Param        niche     query     string  false  "Niche"
// @Param        platform  query     string  false  "Promotion platform"
// @Param        country   query     string  false  "Country"
// @Success      200       {object}  response.Response{data=domain.PartnerMarketplace}
// @Router       /saas/marketplace [get]
func (h *MarketplaceHandler) ListPartners(c *gin.Context) {
	filter := domain.PartnerFilter{
		Query:    c.Query("q"),
		Niche:    c.Query("niche"),
		Platform: c.Query("platform"),
		Country:  c.Query("country"),
	}

	market, err := h.marketplaceUC.PartnerMarketplace(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", market)
}

// ListPrograms godoc
// @Summary      Program marketplace
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "Name search"
// @Param        category  query     string  false  "Category"
// @Success      200       {object}  response.Response{data=domain.ProgramMarketplace}
// @Router       /affiliate/marketplace [get]
func (h *MarketplaceHandler) ListPrograms(c *gin.Context) {
	filter := domain.CompanyFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	market, err := h.marketplaceUC.ProgramMarketplace(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", market)
}

// ConnectWithPartner godoc
// @Summary      Request a partnership with a partner
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        partnerId  path      string  true  "Partner ID"
// @Success      201        {object}  response.Response{data=domain.Partnership}
// @Failure      404        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /saas/marketplace/{partnerId}/connect [post]
func (h *MarketplaceHandler) ConnectWithPartner(c *gin.Context) {
	partnership, err := h.marketplaceUC.ConnectWithPartner(c.Request.Context(), middleware.UserID(c), c.Param("partnerId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Partnership requested", partnership)
}

// ConnectWithProgram godoc
// @Summary      Apply to a partner program
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        saasId  path      string  true  "Company ID"
// @Success      201     {object}  response.Response{data=domain.Partnership}
// @Failure      404     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /affiliate/marketplace/{saasId}/connect [post]
func (h *MarketplaceHandler) ConnectWithProgram(c *gin.Context) {
	partnership, err := h.marketplaceUC.ConnectWithProgram(c.Request.Context(), middleware.UserID(c), c.Param("saasId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Partnership requested", partnership)
}

// Respond godoc
// @Summary      Accept or reject a partnership request
// @Description  Only the side that did not initiate a pending request can answer it.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "Partnership ID"
// @Param        request  body      RespondRequest  true  "active or rejected"
// @Success      200      {object}  response.Response{data=domain.Partnership}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /partnerships/{id} [patch]
func (h *MarketplaceHandler) Respond(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("status must be active or rejected"))
		return
	}

	partnership, err := h.marketplaceUC.RespondToRequest(c.Request.Context(), middleware.UserID(c), middleware.Role(c), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Partnership updated", partnership)
}

// ExportPartners godoc
// @Summary      Export partners
// @Description  Downloads the company's partners as an Excel workbook.
// @Tags         marketplace
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Router       /saas/partners/export [get]
func (h *MarketplaceHandler) ExportPartners(c *gin.Context) {
	data, filename, err := h.marketplaceUC.ExportPartners(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
