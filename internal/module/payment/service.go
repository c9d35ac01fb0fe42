package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/order"
	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/module/payment/provider"
	"github.com/platipay/server/internal/shared/events"
	"github.com/platipay/server/internal/utils/metrics"
)

// Acknowledgment codes of an ITSN response.
const (
	ITSNHandled   = "1"
	ITSNUnhandled = "0"
)

const itsnNotePrefix = "[ITSN] "

// ITSNChangedNote is written before a status pulled after an ITSN is applied.
const ITSNChangedNote = itsnNotePrefix + "Notification: transaction status was changed!"

// CheckoutRequest is the input of the checkout-completed endpoint.
type CheckoutRequest struct {
	// OrderID is the orderId query parameter, set on the error redirect.
	OrderID string
	// Error is the error query parameter. HasError tells an empty value from an absent one.
	Error    string
	HasError bool

	RelayMessage string
	CryptMessage string
}

// NotifyResult is the outcome of a server-to-server relay post.
type NotifyResult struct {
	Model domain.CheckoutCompletedModel
	// Handshake is set once the message decoded and asked for a handshake.
	Handshake bool
}

// Service reconciles PlatiOnline payment statuses with store orders and
// starts payments.
type Service struct {
	gateway   provider.Gateway
	orders    OrderStore
	publisher EventPublisher
	converter CurrencyConverter
	metrics   *metrics.Metrics
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates a new payment service.
func NewService(
	gateway provider.Gateway,
	orders OrderStore,
	publisher EventPublisher,
	converter CurrencyConverter,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		gateway:   gateway,
		orders:    orders,
		publisher: publisher,
		converter: converter,
		metrics:   m,
		now:       time.Now,
		logger:    logger,
	}
}

// --- Redirect callback ---

// RedirectCallback handles the customer returning from the payment page,
// either with an error sent by the store itself or with a relayed
// authorization response. It never fails: any error becomes an Error model.
func (s *Service) RedirectCallback(ctx context.Context, settings domain.MerchantSettings, req CheckoutRequest) domain.CheckoutCompletedModel {
	if req.HasError {
		model, err := s.authorizationError(ctx, req.OrderID, req.Error)
		if err != nil {
			return s.failureModel(domain.ChannelRedirect, req.OrderID, err)
		}
		return model
	}

	model, _, err := s.relay(ctx, settings, domain.ChannelRedirect, req.RelayMessage, req.CryptMessage)
	if err != nil {
		return s.failureModel(domain.ChannelRedirect, req.OrderID, err)
	}
	return model
}

// AsyncNotify handles an authorization response posted server to server.
func (s *Service) AsyncNotify(ctx context.Context, settings domain.MerchantSettings, req CheckoutRequest) NotifyResult {
	model, resp, err := s.relay(ctx, settings, domain.ChannelNotify, req.RelayMessage, req.CryptMessage)
	result := NotifyResult{Model: model, Handshake: resp != nil && resp.Handshake}
	if err != nil {
		result.Model = s.failureModel(domain.ChannelNotify, req.OrderID, err)
	}
	return result
}

// authorizationError forces the order into Error when the store could not
// register the payment.
func (s *Service) authorizationError(ctx context.Context, orderID, reason string) (domain.CheckoutCompletedModel, error) {
	ord, err := s.fetchOrder(ctx, orderID)
	if err != nil {
		return domain.CheckoutCompletedModel{}, err
	}

	ord.PaymentStatus = domain.PaymentError
	ord.OrderStatus = domain.OrderPending
	if err := s.orders.UpdateOrder(ctx, ord); err != nil {
		return domain.CheckoutCompletedModel{}, err
	}
	if err := s.addNote(ctx, ord.ID, domain.ErrorNote(unescape(reason))); err != nil {
		return domain.CheckoutCompletedModel{}, err
	}
	s.statusChanged(ctx, domain.ChannelRedirect, ord)

	return domain.CheckoutCompletedModel{
		OrderNumber:        orderID,
		OrderStatus:        ord.OrderStatus.String(),
		PaymentStatus:      ord.PaymentStatus.String(),
		ResponseReasonText: reason,
	}, nil
}

// relay decodes an authorization response and applies it. The decoded
// response is returned whenever decoding succeeded.
func (s *Service) relay(ctx context.Context, settings domain.MerchantSettings, channel domain.Channel, relayMessage, cryptMessage string) (domain.CheckoutCompletedModel, *provider.AuthorizationResponse, error) {
	resp, err := s.gateway.DecodeAuthorizationResponse(settings, relayMessage, cryptMessage)
	if err != nil {
		return domain.CheckoutCompletedModel{}, nil, err
	}

	ord, err := s.fetchOrder(ctx, resp.OrderNumber)
	if err != nil {
		return domain.CheckoutCompletedModel{}, resp, err
	}

	// The relay carries no settlement sub-code; Settled is final there.
	sub := domain.SubCodeNone
	if resp.StatusCode == domain.CodeSettled {
		sub = domain.SubCodeSettledFinal
	}
	outcome := domain.Map(resp.StatusCode, sub, resp.ReasonText)
	if !outcome.Handled {
		s.logger.Warn("unhandled transaction status",
			zap.String("channel", string(channel)),
			zap.String("order_number", resp.OrderNumber),
			zap.String("status_code", resp.RawStatusCode),
		)
	}
	if err := s.applyAndNote(ctx, channel, ord, outcome); err != nil {
		return domain.CheckoutCompletedModel{}, resp, err
	}

	return domain.CheckoutCompletedModel{
		OrderNumber:        resp.OrderNumber,
		OrderStatus:        ord.OrderStatus.String(),
		PaymentStatus:      ord.PaymentStatus.String(),
		ResponseReasonText: resp.ReasonText,
	}, resp, nil
}

func (s *Service) failureModel(channel domain.Channel, orderID string, err error) domain.CheckoutCompletedModel {
	s.logger.Error("reconciliation failed",
		zap.String("channel", string(channel)),
		zap.String("order_id", orderID),
		zap.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordReconcileFailure(string(channel))
	}
	return domain.CheckoutCompletedModel{
		OrderNumber:        orderID,
		OrderStatus:        domain.OrderPending.String(),
		PaymentStatus:      domain.PaymentError.String(),
		ResponseReasonText: domain.ErrorNote(unescape(err.Error())),
	}
}

// --- Status query ---

// StatusQuery handles an ITSN: it pulls the current status of the notified
// transaction, applies it and returns the response body. Failures are
// returned as text, which is what the processor expects.
func (s *Service) StatusQuery(ctx context.Context, settings domain.MerchantSettings, itsnMessage, cryptMessage string) string {
	msg, err := s.gateway.DecodeITSN(settings, itsnMessage, normalizeITSNCrypt(cryptMessage))
	if err != nil {
		s.queryFailed(domain.ChannelITSN, "", err)
		return err.Error()
	}
	return s.queryStatus(ctx, settings, domain.ChannelITSN, msg.OrderNumber, msg.TransID)
}

// QueryStatus pulls and applies the status of one transaction on demand.
// It returns the signed acknowledgment or the failure text.
func (s *Service) QueryStatus(ctx context.Context, settings domain.MerchantSettings, orderNumber, transID string) string {
	return s.queryStatus(ctx, settings, domain.ChannelQuery, orderNumber, transID)
}

func (s *Service) queryStatus(ctx context.Context, settings domain.MerchantSettings, channel domain.Channel, orderNumber, transID string) string {
	resp, err := s.gateway.Query(ctx, settings, &provider.QueryRequest{
		OrderNumber: orderNumber,
		TransID:     transID,
		Website:     provider.Website(settings.StoreLocation()),
	})
	if err != nil {
		s.queryFailed(channel, orderNumber, err)
		return err.Error()
	}
	if resp.Failed() {
		s.logger.Warn("status query refused",
			zap.String("order_number", orderNumber),
			zap.String("error_code", resp.ErrorCode),
			zap.String("error_reason", resp.ErrorReason),
		)
		return resp.ErrorReason
	}

	body, err := s.acknowledge(ctx, settings, channel, resp)
	if err != nil {
		s.queryFailed(channel, resp.OrderNumber, err)
		return err.Error()
	}
	return body
}

func (s *Service) acknowledge(ctx context.Context, settings domain.MerchantSettings, channel domain.Channel, resp *provider.QueryResponse) (string, error) {
	ord, err := s.fetchOrder(ctx, resp.OrderNumber)
	if err != nil {
		return "", err
	}
	if err := s.addNote(ctx, ord.ID, ITSNChangedNote); err != nil {
		return "", err
	}

	outcome := domain.Map(resp.StatusCode, resp.SubCode, "")
	code := ITSNHandled
	if !outcome.Handled {
		code = ITSNUnhandled
		s.logger.Warn("unhandled transaction status",
			zap.String("channel", string(channel)),
			zap.String("order_number", resp.OrderNumber),
			zap.String("status_code", resp.RawStatus),
			zap.String("sub_code", resp.RawSubCode),
		)
	}
	if err := s.applyAndNote(ctx, channel, ord, outcome); err != nil {
		return "", err
	}

	return s.gateway.ITSNResponse(settings, code, resp.TransID)
}

func (s *Service) queryFailed(channel domain.Channel, orderNumber string, err error) {
	s.logger.Error("status query failed",
		zap.String("channel", string(channel)),
		zap.String("order_number", orderNumber),
		zap.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordReconcileFailure(string(channel))
	}
}

// normalizeITSNCrypt undoes the extra encoding the processor applies to
// the key of an ITSN.
func normalizeITSNCrypt(s string) string {
	return strings.ReplaceAll(unescape(s), " ", "+")
}

// --- Shared apply ---

// applyAndNote applies outcome to ord, persists it and appends the audit
// note. There is no lock or transaction across the steps: concurrent
// deliveries for one order are last-write-wins.
func (s *Service) applyAndNote(ctx context.Context, channel domain.Channel, ord *order.Order, outcome domain.Outcome) error {
	if outcome.Handled {
		if outcome.OrderStatus != nil {
			ord.OrderStatus = *outcome.OrderStatus
		}
		ord.PaymentStatus = outcome.PaymentStatus
	} else if s.metrics != nil {
		s.metrics.RecordUnhandled(string(channel))
	}

	if err := s.orders.UpdateOrder(ctx, ord); err != nil {
		return err
	}

	note := outcome.Note
	switch {
	case channel == domain.ChannelITSN || channel == domain.ChannelQuery:
		note = itsnNotePrefix + domain.StatusNote(ord.PaymentStatus)
	case !outcome.Handled:
		note = domain.StatusNote(ord.PaymentStatus)
	}
	if err := s.addNote(ctx, ord.ID, note); err != nil {
		return err
	}

	if outcome.Handled {
		s.statusChanged(ctx, channel, ord)
	}
	return nil
}

func (s *Service) statusChanged(ctx context.Context, channel domain.Channel, ord *order.Order) {
	if s.metrics != nil {
		s.metrics.RecordReconcile(string(channel), ord.PaymentStatus.String())
	}
	s.logger.Info("payment status applied",
		zap.String("channel", string(channel)),
		zap.Int("order_id", ord.ID),
		zap.String("payment_status", ord.PaymentStatus.String()),
		zap.String("order_status", ord.OrderStatus.String()),
	)
	if s.publisher == nil {
		return
	}
	event := events.NewPaymentStatusChanged(ord.ID, ord.StoreID,
		ord.PaymentStatus.String(), ord.OrderStatus.String(), string(channel), s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish status change", zap.Int("order_id", ord.ID), zap.Error(err))
	}
}

func (s *Service) fetchOrder(ctx context.Context, orderNumber string) (*order.Order, error) {
	id, err := strconv.Atoi(strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderNumber, orderNumber)
	}
	return s.orders.GetOrderByID(ctx, id)
}

func (s *Service) addNote(ctx context.Context, orderID int, text string) error {
	return s.orders.InsertOrderNote(ctx, &order.OrderNote{
		OrderID:           orderID,
		Note:              text,
		DisplayToCustomer: false,
		CreatedOnUTC:      s.now().UTC(),
	})
}

// unescape URL-decodes s once more, keeping s when it is not valid encoding.
func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// --- Payment start ---

// ProcessPayment returns the payment status a new order starts in under
// the configured transaction mode.
func (s *Service) ProcessPayment(settings domain.MerchantSettings, ord *order.Order) (domain.PaymentStatus, error) {
	status, ok := settings.TransactMode.InitialPaymentStatus()
	if !ok {
		s.logger.Warn("unsupported transact mode",
			zap.Int("order_id", ord.ID),
			zap.String("transact_mode", string(settings.TransactMode)),
		)
		return "", ErrUnsupportedTransactMode
	}
	return status, nil
}

// IsOrderNotFound reports whether err means the order does not exist.
func IsOrderNotFound(err error) bool {
	return errors.Is(err, order.ErrOrderNotFound) || errors.Is(err, order.ErrInvalidOrderID)
}
