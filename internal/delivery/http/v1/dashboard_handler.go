package v1

import (
	"net/http"

	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardUC domain.DashboardUsecase
}

func NewDashboardHandler(saas, affiliate *gin.RouterGroup, dashboardUC domain.DashboardUsecase) {
	handler := &DashboardHandler{dashboardUC: dashboardUC}

	saas.GET("/dashboard", handler.Summary)
	affiliate.GET("/dashboard", handler.Summary)
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Partnership counts by status. An account that has not finished onboarding gets a redirect instead.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.DashboardSummary}
// @Router       /saas/dashboard [get]
// @Router       /affiliate/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardUC.Summary(c.Request.Context(), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", summary)
}
