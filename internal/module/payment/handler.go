package payment

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/payment/domain"
	apperrors "github.com/platipay/server/internal/shared/errors"
	"github.com/platipay/server/internal/shared/response"
)

// HandshakeHeader tells the processor whether a relayed response was processed.
const HandshakeHeader = "PO_Transaction_Response_Processing"

// Handshake header values. Only HandshakeProcessed is sent.
const (
	HandshakeProcessed = "true"
	HandshakeRetry     = "retry"
)

var checkoutPage = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Order {{.OrderNumber}}</title></head>
<body>
<h1>Order {{.OrderNumber}}</h1>
<table>
<tr><th>Order status</th><td>{{.OrderStatus}}</td></tr>
<tr><th>Payment status</th><td>{{.PaymentStatus}}</td></tr>
<tr><th>Details</th><td>{{.ResponseReasonText}}</td></tr>
</table>
</body>
</html>
`))

// Handler serves the endpoints the processor and the customer's browser call.
type Handler struct {
	service  *Service
	settings SettingsLoader
	storeID  int
	logger   *zap.Logger
}

// NewHandler creates a new payment handler for the store storeID.
func NewHandler(service *Service, settings SettingsLoader, storeID int, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		settings: settings,
		storeID:  storeID,
		logger:   logger,
	}
}

// RegisterRoutes registers the public PlatiOnline routes. payMiddleware runs
// in front of the customer facing Pay route only.
func (h *Handler) RegisterRoutes(r gin.IRouter, payMiddleware ...gin.HandlerFunc) {
	g := r.Group("/PaymentPlatiOnline")
	{
		g.GET("/CheckoutCompleted", h.CheckoutCompleted)
		g.POST("/CheckoutCompleted", h.CheckoutCompleted)
		g.POST("/ITSN", h.ITSN)
		g.GET("/Pay/:orderId", append(payMiddleware, h.Pay)...)
	}
}

// CheckoutCompleted handles the relay of an authorization result. The
// configured relay method decides whether the customer or the processor is
// calling.
//
//	@Summary		Relay authorization result
//	@Tags			Payment
//	@Accept			x-www-form-urlencoded
//	@Produce		html,json
//	@Param			orderId			query		string	false	"Order ID, sent with error"
//	@Param			error			query		string	false	"Failure reason of the payment start"
//	@Param			f_relay_message	formData	string	false	"Encrypted relay message"
//	@Param			f_crypt_message	formData	string	false	"Encrypted AES key"
//	@Success		200				{object}	domain.CheckoutCompletedModel
//	@Router			/PaymentPlatiOnline/CheckoutCompleted [post]
func (h *Handler) CheckoutCompleted(c *gin.Context) {
	errParam, hasError := c.GetQuery("error")
	req := CheckoutRequest{
		OrderID:      c.Query("orderId"),
		Error:        errParam,
		HasError:     hasError,
		RelayMessage: c.PostForm("f_relay_message"),
		CryptMessage: c.PostForm("f_crypt_message"),
	}
	ctx := c.Request.Context()

	settings, err := h.settings.Load(ctx, h.storeID)
	if err != nil {
		h.render(c, h.service.failureModel(domain.ChannelRedirect, req.OrderID, err))
		return
	}

	if req.HasError || settings.RelayMethod == domain.RelayPTOR {
		h.render(c, h.service.RedirectCallback(ctx, settings, req))
		return
	}

	result := h.service.AsyncNotify(ctx, settings, req)
	if result.Handshake {
		c.Writer.Header()[HandshakeHeader] = []string{HandshakeProcessed}
	}
	if settings.RelayMethod == domain.RelayS2SPOPage {
		c.Status(http.StatusOK)
		return
	}
	h.render(c, result.Model)
}

// ITSN handles an instant transaction status notification.
//
//	@Summary		Instant transaction status notification
//	@Tags			Payment
//	@Accept			x-www-form-urlencoded
//	@Produce		plain
//	@Param			f_itsn_message	formData	string	true	"Encrypted notification"
//	@Param			f_crypt_message	formData	string	true	"Encrypted AES key"
//	@Success		200				{string}	string	"Signed acknowledgment"
//	@Router			/PaymentPlatiOnline/ITSN [post]
func (h *Handler) ITSN(c *gin.Context) {
	ctx := c.Request.Context()

	var body string
	settings, err := h.settings.Load(ctx, h.storeID)
	if err != nil {
		h.logger.Error("failed to load settings", zap.Int("store_id", h.storeID), zap.Error(err))
		body = err.Error()
	} else {
		body = h.service.StatusQuery(ctx, settings, c.PostForm("f_itsn_message"), c.PostForm("f_crypt_message"))
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// Pay starts the payment of an order and redirects the customer.
//
//	@Summary		Start payment
//	@Tags			Payment
//	@Param			orderId	path	int	true	"Order ID"
//	@Success		302
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		425	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/PaymentPlatiOnline/Pay/{orderId} [get]
func (h *Handler) Pay(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil || orderID <= 0 {
		response.Error(c, apperrors.BadRequest("invalid order id"))
		return
	}
	ctx := c.Request.Context()

	settings, err := h.settings.Load(ctx, h.storeID)
	if err != nil {
		response.Error(c, apperrors.Internal("failed to load settings", err))
		return
	}

	redirectURL, err := h.service.BeginPayment(ctx, settings, orderID)
	if err != nil {
		if IsOrderNotFound(err) {
			response.Error(c, apperrors.NotFound("order"))
			return
		}
		if errors.Is(err, ErrPaymentTooEarly) {
			c.Header("Retry-After", strconv.Itoa(int(MinOrderAge.Seconds())))
			response.Error(c, apperrors.TooEarly(err.Error()))
			return
		}
		h.logger.Error("failed to start payment", zap.Int("order_id", orderID), zap.Error(err))
		response.Error(c, apperrors.Internal("failed to start payment", err))
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}

func (h *Handler) render(c *gin.Context, model domain.CheckoutCompletedModel) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, model)
		return
	}

	var buf bytes.Buffer
	if err := checkoutPage.Execute(&buf, model); err != nil {
		h.logger.Error("failed to render checkout page", zap.Error(err))
		c.JSON(http.StatusOK, model)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
