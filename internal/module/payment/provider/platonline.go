package provider

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-pay/gopay"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/utils/metrics"
)

const maxResponseBytes = 1 << 20

// Config holds PlatiOnline endpoint configuration.
type Config struct {
	AuthorizationURL string
	QueryURL         string
	Timeout          time.Duration
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// ExchangeLogs returns the logger that records processor exchanges for a log path.
type ExchangeLogs interface {
	For(path string) *zap.Logger
}

// PlatiOnline implements Gateway against the PlatiOnline HTTP endpoints.
type PlatiOnline struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logs    ExchangeLogs
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewPlatiOnline creates a PlatiOnline gateway. logs and m may be nil.
func NewPlatiOnline(cfg Config, client *http.Client, logs ExchangeLogs, m *metrics.Metrics, logger *zap.Logger) *PlatiOnline {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	threshold := cfg.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "platonline",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &PlatiOnline{
		cfg:     cfg,
		client:  client,
		breaker: breaker,
		logs:    logs,
		metrics: m,
		logger:  logger,
	}
}

// DecodeAuthorizationResponse decrypts the relay message posted after authorization.
func (p *PlatiOnline) DecodeAuthorizationResponse(settings domain.MerchantSettings, relayMessage, cryptMessage string) (*AuthorizationResponse, error) {
	var doc authResponseDoc
	if err := p.openDoc(settings, "relay", relayMessage, cryptMessage, &doc); err != nil {
		return nil, fmt.Errorf("decode authorization response: %w", err)
	}

	return &AuthorizationResponse{
		OrderNumber:   strings.TrimSpace(doc.OrderNumber),
		StatusCode:    domain.ParseTransactionStatusCode(strings.TrimSpace(doc.ResponseCode)),
		RawStatusCode: doc.ResponseCode,
		ReasonText:    doc.ResponseReasonText,
		TransID:       doc.TransID,
		Handshake:     strings.TrimSpace(doc.Handshake) == "1",
	}, nil
}

// DecodeITSN decrypts an instant transaction status notification.
func (p *PlatiOnline) DecodeITSN(settings domain.MerchantSettings, itsnMessage, cryptMessage string) (*ITSNMessage, error) {
	var doc itsnDoc
	if err := p.openDoc(settings, "itsn", itsnMessage, cryptMessage, &doc); err != nil {
		return nil, fmt.Errorf("decode itsn: %w", err)
	}

	return &ITSNMessage{
		OrderNumber: strings.TrimSpace(doc.OrderNumber),
		TransID:     strings.TrimSpace(doc.TransID),
	}, nil
}

// Authorize registers the payment and returns the processor payment page.
func (p *PlatiOnline) Authorize(ctx context.Context, settings domain.MerchantSettings, req *AuthorizationRequest) (*AuthorizationURLResponse, error) {
	doc := authRequestDoc{Login: settings.MerchantID, AuthorizationRequest: *req}

	body, err := p.post(ctx, "authorize", p.cfg.AuthorizationURL, settings, doc)
	if err != nil {
		return nil, err
	}

	var resp authURLResponseDoc
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode authorization url response: %w", err)
	}

	return &AuthorizationURLResponse{
		ErrorCode:   strings.TrimSpace(resp.ErrorCode),
		ErrorReason: resp.ErrorReason,
		RedirectURL: strings.TrimSpace(resp.RedirectURL),
	}, nil
}

// Query asks for the current status of one transaction.
func (p *PlatiOnline) Query(ctx context.Context, settings domain.MerchantSettings, req *QueryRequest) (*QueryResponse, error) {
	doc := queryRequestDoc{
		Login:       settings.MerchantID,
		Website:     req.Website,
		OrderNumber: req.OrderNumber,
		TransID:     req.TransID,
	}

	body, err := p.post(ctx, "query", p.cfg.QueryURL, settings, doc)
	if err != nil {
		return nil, err
	}

	var resp queryResponseDoc
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}

	tx := resp.Order.Transaction
	return &QueryResponse{
		ErrorCode:   strings.TrimSpace(resp.ErrorCode),
		ErrorReason: resp.ErrorReason,
		OrderNumber: strings.TrimSpace(resp.Order.OrderNumber),
		TransID:     strings.TrimSpace(tx.TransID),
		StatusCode:  domain.ParseTransactionStatusCode(strings.TrimSpace(tx.StatusFin1.Code)),
		SubCode:     domain.ParseSettlementSubCode(strings.TrimSpace(tx.StatusFin2.Code)),
		RawStatus:   tx.StatusFin1.Code,
		RawSubCode:  tx.StatusFin2.Code,
	}, nil
}

// ITSNResponse builds the signed acknowledgment returned to the ITSN caller.
func (p *PlatiOnline) ITSNResponse(settings domain.MerchantSettings, responseCode, transID string) (string, error) {
	key, err := parsePrivateKey(settings.PrivateKey)
	if err != nil {
		return "", err
	}

	bm := make(gopay.BodyMap)
	bm.Set("f_response_code", responseCode).
		Set("x_trans_id", transID)

	signature, err := sign(key, []byte(bm.EncodeURLParams()))
	if err != nil {
		return "", err
	}

	out, err := xml.Marshal(itsnResponseDoc{
		ResponseCode: responseCode,
		TransID:      transID,
		Signature:    signature,
	})
	if err != nil {
		return "", fmt.Errorf("encode itsn response: %w", err)
	}

	p.exchangeLog(settings).Info("itsn response", zap.ByteString("payload", out))
	return string(out), nil
}

func (p *PlatiOnline) openDoc(settings domain.MerchantSettings, kind, message, cryptMessage string, v any) error {
	if message == "" || cryptMessage == "" {
		return fmt.Errorf("missing %s message", kind)
	}

	key, err := parsePrivateKey(settings.PrivateKey)
	if err != nil {
		return err
	}
	iv, err := parseIV(settings.IVItsn)
	if err != nil {
		return err
	}

	plain, err := open(key, iv, message, cryptMessage)
	if err != nil {
		return err
	}
	p.exchangeLog(settings).Info("inbound message", zap.String("kind", kind), zap.ByteString("payload", plain))

	if err := xml.Unmarshal(plain, v); err != nil {
		return fmt.Errorf("parse %s message: %w", kind, err)
	}
	return nil
}

func (p *PlatiOnline) post(ctx context.Context, op, endpoint string, settings domain.MerchantSettings, doc any) ([]byte, error) {
	payload, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}

	recipient, err := parsePublicKey(settings.PublicKey)
	if err != nil {
		return nil, err
	}
	iv, err := parseIV(settings.IVAuth)
	if err != nil {
		return nil, err
	}

	message, cryptMessage, err := seal(recipient, iv, payload)
	if err != nil {
		return nil, err
	}

	bm := make(gopay.BodyMap)
	bm.Set("f_login", settings.MerchantID).
		Set("f_message", message).
		Set("f_crypt_message", cryptMessage)

	xlog := p.exchangeLog(settings)
	xlog.Info("outbound request", zap.String("op", op), zap.ByteString("payload", payload))

	start := time.Now()
	body, err := p.breaker.Execute(func() ([]byte, error) {
		return p.do(ctx, endpoint, bm.EncodeURLParams())
	})
	duration := time.Since(start)

	if err != nil {
		p.record(op, "error", duration)
		p.logger.Error("platonline request failed",
			zap.String("op", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, &TransportError{Op: op, Err: err}
	}

	p.record(op, "ok", duration)
	xlog.Info("inbound response", zap.String("op", op), zap.ByteString("payload", body))
	return body, nil
}

func (p *PlatiOnline) do(ctx context.Context, endpoint, form string) ([]byte, error) {
	if endpoint == "" {
		return nil, errors.New("endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func (p *PlatiOnline) exchangeLog(settings domain.MerchantSettings) *zap.Logger {
	if p.logs == nil || settings.LogPath == "" {
		return zap.NewNop()
	}
	return p.logs.For(settings.LogPath)
}

func (p *PlatiOnline) record(op, status string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.RecordGatewayRequest(op, status, d)
	}
}
