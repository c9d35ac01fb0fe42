package settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/payment/domain"
	apperrors "github.com/platipay/server/internal/shared/errors"
	"github.com/platipay/server/internal/shared/response"
)

// SettingsResponse is returned by the admin settings endpoints.
type SettingsResponse struct {
	StoreID   int                     `json:"store_id"`
	Settings  domain.MerchantSettings `json:"settings"`
	Overrides map[string]bool         `json:"overrides"`
}

// SaveSettingsRequest is the body of PUT /admin/platonline/settings.
type SaveSettingsRequest struct {
	Settings  domain.MerchantSettings `json:"settings"`
	Overrides map[string]bool         `json:"overrides"`
}

// Handler serves the admin settings API.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new settings handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterProtectedRoutes registers the settings routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	g := r.Group("/platonline/settings")
	{
		g.GET("", h.GetSettings)
		g.PUT("", h.SaveSettings)
	}
}

// GetSettings returns the settings in effect for ?store=N with secrets masked.
//
//	@Summary		Get PlatiOnline settings
//	@Description	Get the merged settings of a store with secrets masked
//	@Tags			Settings
//	@Produce		json
//	@Security		BearerAuth
//	@Param			store	query		int	false	"Store ID, 0 for the default scope"	default(0)
//	@Success		200		{object}	SettingsResponse
//	@Failure		400		{object}	apperrors.ErrorResponse
//	@Failure		401		{object}	apperrors.ErrorResponse
//	@Router			/admin/platonline/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	storeID, ok := storeParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	s, err := h.service.Load(ctx, storeID)
	if err != nil {
		response.Error(c, apperrors.Internal("failed to load settings", err))
		return
	}
	overrides, err := h.service.Overrides(ctx, storeID)
	if err != nil {
		response.Error(c, apperrors.Internal("failed to load settings", err))
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		StoreID:   storeID,
		Settings:  s.Masked(),
		Overrides: overrides,
	})
}

// SaveSettings stores the settings for ?store=N.
//
//	@Summary		Save PlatiOnline settings
//	@Description	Store the settings of a store. Masked secrets keep their stored value.
//	@Tags			Settings
//	@Accept			json
//	@Security		BearerAuth
//	@Param			store	query	int					false	"Store ID, 0 for the default scope"	default(0)
//	@Param			request	body	SaveSettingsRequest	true	"Settings"
//	@Success		204
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Router			/admin/platonline/settings [put]
func (h *Handler) SaveSettings(c *gin.Context) {
	storeID, ok := storeParam(c)
	if !ok {
		return
	}

	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.BadRequest("invalid request body"))
		return
	}

	err := h.service.Save(c.Request.Context(), storeID, req.Settings, req.Overrides)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case IsPayLinkConflict(err):
		response.Error(c, apperrors.ValidationError(err.Error(), err))
	case errors.Is(err, ErrInvalidSetting), errors.Is(err, ErrInvalidStore):
		response.Error(c, apperrors.ValidationError(err.Error(), err))
	default:
		h.logger.Error("failed to save settings", zap.Int("store_id", storeID), zap.Error(err))
		response.Error(c, apperrors.Internal("failed to save settings", err))
	}
}

func storeParam(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("store", "0")
	storeID, err := strconv.Atoi(raw)
	if err != nil || storeID < 0 {
		response.Error(c, apperrors.BadRequest("invalid store"))
		return 0, false
	}
	return storeID, true
}
