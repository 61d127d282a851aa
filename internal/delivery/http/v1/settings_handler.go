package v1

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/delivery/http/response"
	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const defaultUploadMaxBytes = 5 << 20

type SettingsHandler struct {
	settingsUC     domain.SettingsUsecase
	uploadMaxBytes int64
}

// NewSettingsHandler registers the settings forms. uploadLimit runs before the two
// image upload routes.
func NewSettingsHandler(saas, affiliate *gin.RouterGroup, settingsUC domain.SettingsUsecase, uploadMaxBytes int64, uploadLimit gin.HandlerFunc) {
	if uploadMaxBytes <= 0 {
		uploadMaxBytes = defaultUploadMaxBytes
	}
	handler := &SettingsHandler{settingsUC: settingsUC, uploadMaxBytes: uploadMaxBytes}

	saas.GET("/settings", handler.GetSaas)
	saas.PUT("/settings", handler.UpdateSaas)
	saas.POST("/settings/logo", uploadLimit, handler.UploadLogo)

	affiliate.GET("/settings", handler.GetAffiliate)
	affiliate.PUT("/settings", handler.UpdateAffiliate)
	affiliate.POST("/settings/avatar", uploadLimit, handler.UploadAvatar)
}

// GetSaas godoc
// @Summary      SaaS program settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.SaasCompany}
// @Router       /saas/settings [get]
func (h *SettingsHandler) GetSaas(c *gin.Context) {
	company, err := h.settingsUC.GetSaasSettings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", company)
}

// UpdateSaas godoc
// @Summary      Save SaaS program settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.SaasSettingsInput  true  "Program fields"
// @Success      200      {object}  response.Response{data=domain.SaasCompany}
// @Failure      400      {object}  response.Response
// @Router       /saas/settings [put]
func (h *SettingsHandler) UpdateSaas(c *gin.Context) {
	var req domain.SaasSettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	company, err := h.settingsUC.UpdateSaasSettings(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Settings saved", company)
}

// GetAffiliate godoc
// @Summary      Affiliate settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.Partner}
// @Router       /affiliate/settings [get]
func (h *SettingsHandler) GetAffiliate(c *gin.Context) {
	partner, err := h.settingsUC.GetAffiliateSettings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", partner)
}

// UpdateAffiliate godoc
// @Summary      Save affiliate settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.AffiliateSettingsInput  true  "Identity, channel and payment fields"
// @Success      200      {object}  response.Response{data=domain.Partner}
// @Failure      400      {object}  response.Response
// @Router       /affiliate/settings [put]
func (h *SettingsHandler) UpdateAffiliate(c *gin.Context) {
	var req domain.AffiliateSettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	partner, err := h.settingsUC.UpdateAffiliateSettings(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Settings saved", partner)
}

// UploadLogo godoc
// @Summary      Upload company logo
// @Description  Crops, scales and stores the image. Save the returned URL with the settings form.
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file    formData  file    true   "Image (jpg, png, gif, webp)"
// @Param        x       formData  int     false  "Crop x in source pixels"
// @Param        y       formData  int     false  "Crop y in source pixels"
// @Param        width   formData  int     false  "Crop width"
// @Param        height  formData  int     false  "Crop height"
// @Param        aspect  formData  number  false  "Aspect ratio for the centered crop"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Router       /saas/settings/logo [post]
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	upload, err := h.readUpload(c)
	if err != nil {
		c.Error(err)
		return
	}

	url, err := h.settingsUC.UploadCompanyLogo(c.Request.Context(), middleware.UserID(c), upload)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Logo uploaded", gin.H{"url": url})
}

// UploadAvatar godoc
// @Summary      Upload affiliate avatar
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image (jpg, png, gif, webp)"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /affiliate/settings/avatar [post]
func (h *SettingsHandler) UploadAvatar(c *gin.Context) {
	upload, err := h.readUpload(c)
	if err != nil {
		c.Error(err)
		return
	}

	url, err := h.settingsUC.UploadAvatar(c.Request.Context(), middleware.UserID(c), upload)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Avatar uploaded", gin.H{"url": url})
}

func (h *SettingsHandler) readUpload(c *gin.Context) (domain.ImageUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadMaxBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.ImageUpload{}, apperror.BadRequest("An image file is required in the 'file' field")
	}
	if fileHeader.Size > h.uploadMaxBytes {
		return domain.ImageUpload{}, apperror.BadRequest(fmt.Sprintf("Image must be at most %d MB", h.uploadMaxBytes>>20))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.ImageUpload{}, apperror.BadRequest("Unable to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.uploadMaxBytes+1))
	if err != nil {
		return domain.ImageUpload{}, apperror.BadRequest("Unable to read uploaded file")
	}
	if int64(len(data)) > h.uploadMaxBytes {
		return domain.ImageUpload{}, apperror.BadRequest(fmt.Sprintf("Image must be at most %d MB", h.uploadMaxBytes>>20))
	}

	upload := domain.ImageUpload{Filename: fileHeader.Filename, Data: data}
	if width, height := formInt(c, "width"), formInt(c, "height"); width > 0 && height > 0 {
		upload.Crop = &domain.CropRect{X: formInt(c, "x"), Y: formInt(c, "y"), Width: width, Height: height}
	}
	if aspect, err := strconv.ParseFloat(c.PostForm("aspect"), 64); err == nil && aspect > 0 {
		upload.Aspect = aspect
	}
	return upload, nil
}

func formInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.PostForm(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
