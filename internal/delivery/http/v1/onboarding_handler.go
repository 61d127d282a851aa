package v1

import (
	"net/http"

	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	onboardingUC domain.OnboardingUsecase
}

func NewOnboardingHandler(saas, affiliate *gin.RouterGroup, onboardingUC domain.OnboardingUsecase) {
	handler := &OnboardingHandler{onboardingUC: onboardingUC}

	saas.GET("/onboarding", handler.GetSaas)
	saas.POST("/onboarding", handler.CompleteSaas)
	affiliate.GET("/onboarding", handler.GetAffiliate)
	affiliate.POST("/onboarding", handler.CompleteAffiliate)
}

// GetSaas godoc
// @Summary      SaaS onboarding state
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.SaasCompany}
// @Router       /saas/onboarding [get]
func (h *OnboardingHandler) GetSaas(c *gin.Context) {
	company, err := h.onboardingUC.GetSaasOnboarding(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", company)
}

// CompleteSaas godoc
// @Summary      Complete SaaS onboarding
// @Description  Saves company name, description, website and commission rate.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.SaasOnboardingInput  true  "Company basics"
// @Success      200      {object}  response.Response{data=domain.SaasCompany}
// @Failure      400      {object}  response.Response
// @Router       /saas/onboarding [post]
func (h *OnboardingHandler) CompleteSaas(c *gin.Context) {
	var req domain.SaasOnboardingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	company, err := h.onboardingUC.CompleteSaasOnboarding(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Onboarding saved", gin.H{
		"company":  company,
		"redirect": domain.RoleSaaS.DashboardPath(),
	})
}

// GetAffiliate godoc
// @Summary      Affiliate onboarding state
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.Partner}
// @Router       /affiliate/onboarding [get]
func (h *OnboardingHandler) GetAffiliate(c *gin.Context) {
	partner, err := h.onboardingUC.GetAffiliateOnboarding(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", partner)
}

// CompleteAffiliate godoc
// @Summary      Complete affiliate onboarding
// @Description  Saves bio and skills. Skills may be a list or a comma separated string.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.AffiliateOnboardingInput  true  "Bio and skills"
// @Success      200      {object}  response.Response{data=domain.Partner}
// @Failure      400      {object}  response.Response
// @Router       /affiliate/onboarding [post]
func (h *OnboardingHandler) CompleteAffiliate(c *gin.Context) {
	var req domain.AffiliateOnboardingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	partner, err := h.onboardingUC.CompleteAffiliateOnboarding(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Onboarding saved", gin.H{
		"partner":  partner,
		"redirect": domain.RoleAffiliate.DashboardPath(),
	})
}
