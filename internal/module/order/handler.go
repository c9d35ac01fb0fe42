package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/platipay/server/internal/shared/errors"
	"github.com/platipay/server/internal/shared/response"
	"github.com/platipay/server/internal/utils/pagination"
)

// NotesResponse is one page of order notes.
type NotesResponse struct {
	Notes      []*OrderNote        `json:"notes"`
	Pagination pagination.PageInfo `json:"pagination"`
}

// Handler handles admin HTTP requests for orders.
type Handler struct {
	service *Service
}

// NewHandler creates a new order handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers order routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/notes", h.ListNotes)
	}
}

// GetOrder returns one order with its payment and order status.
//
//	@Summary		Get order
//	@Description	Get an order with its payment and order status
//	@Tags			Order
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Order ID"
//	@Success		200	{object}	Order
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Router			/admin/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.BadRequest("invalid order ID"))
		return
	}

	order, err := h.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListNotes returns the audit notes of an order.
//
//	@Summary		List order notes
//	@Description	Get one page of the audit notes of an order, oldest first
//	@Tags			Order
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		int	true	"Order ID"
//	@Param			page		query		int	false	"Page number"	default(1)
//	@Param			page_size	query		int	false	"Page size"		default(50)
//	@Success		200			{object}	NotesResponse
//	@Failure		400			{object}	apperrors.ErrorResponse
//	@Failure		401			{object}	apperrors.ErrorResponse
//	@Router			/admin/orders/{id}/notes [get]
func (h *Handler) ListNotes(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.BadRequest("invalid order ID"))
		return
	}

	p := pagination.New()
	if err := c.ShouldBindQuery(p); err != nil {
		response.Error(c, apperrors.BadRequest("invalid pagination"))
		return
	}

	notes, total, err := h.service.ListNotes(c.Request.Context(), id, p)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, NotesResponse{Notes: notes, Pagination: p.Info(total)})
}

func handleOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		response.Error(c, apperrors.NotFound("order"))
	case errors.Is(err, ErrInvalidOrderID):
		response.Error(c, apperrors.BadRequest("invalid order ID"))
	default:
		response.Error(c, apperrors.Internal("failed to load order", err))
	}
}
