package payment

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/order"
	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/module/payment/provider"
	"github.com/platipay/server/internal/shared/events"
	"github.com/platipay/server/internal/utils/metrics"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) DecodeAuthorizationResponse(settings domain.MerchantSettings, relayMessage, cryptMessage string) (*provider.AuthorizationResponse, error) {
	args := m.Called(settings, relayMessage, cryptMessage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AuthorizationResponse), args.Error(1)
}

func (m *MockGateway) DecodeITSN(settings domain.MerchantSettings, itsnMessage, cryptMessage string) (*provider.ITSNMessage, error) {
	args := m.Called(settings, itsnMessage, cryptMessage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ITSNMessage), args.Error(1)
}

func (m *MockGateway) Authorize(ctx context.Context, settings domain.MerchantSettings, req *provider.AuthorizationRequest) (*provider.AuthorizationURLResponse, error) {
	args := m.Called(ctx, settings, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AuthorizationURLResponse), args.Error(1)
}

func (m *MockGateway) Query(ctx context.Context, settings domain.MerchantSettings, req *provider.QueryRequest) (*provider.QueryResponse, error) {
	args := m.Called(ctx, settings, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.QueryResponse), args.Error(1)
}

func (m *MockGateway) ITSNResponse(settings domain.MerchantSettings, responseCode, transID string) (string, error) {
	args := m.Called(settings, responseCode, transID)
	return args.String(0), args.Error(1)
}

// memOrders is an in-memory OrderStore. It hands out copies, like a
// database would, so concurrent updates overwrite each other.
type memOrders struct {
	mu        sync.Mutex
	orders    map[int]order.Order
	notes     []order.OrderNote
	gets      int
	updates   int
	updateErr error
}

func newMemOrders(orders ...order.Order) *memOrders {
	m := &memOrders{orders: make(map[int]order.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *memOrders) GetOrderByID(_ context.Context, id int) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memOrders) UpdateOrder(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	m.orders[o.ID] = *o
	return nil
}

func (m *memOrders) InsertOrderNote(_ context.Context, note *order.OrderNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, *note)
	return nil
}

func (m *memOrders) order(id int) order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memOrders) notesFor(id int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, n := range m.notes {
		if n.OrderID == id {
			out = append(out, n.Note)
		}
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.PaymentStatusChanged
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e *events.PaymentStatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type staticSettings struct {
	settings domain.MerchantSettings
	err      error
}

func (s staticSettings) Load(context.Context, int) (domain.MerchantSettings, error) {
	return s.settings, s.err
}

func testSettings() domain.MerchantSettings {
	return domain.MerchantSettings{
		MerchantID:       "4242",
		RelayMethod:      domain.RelayPTOR,
		RelayResponseURL: "PaymentPlatiOnline/CheckoutCompleted",
		AcceptRON:        true,
		FallbackCurrency: "RON",
		TransactMode:     domain.TransactPending,
		StoreHost:        "www.shop.example.ro",
		SSL:              true,
		Language:         "RO",
	}
}

func pendingOrder(id int) order.Order {
	return order.Order{
		ID:            id,
		Total:         150,
		Currency:      "RON",
		PaymentStatus: domain.PaymentPending,
		OrderStatus:   domain.OrderPending,
	}
}

type fixture struct {
	gateway   *MockGateway
	orders    *memOrders
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	service   *Service
}

func newFixture(orders ...order.Order) *fixture {
	f := &fixture{
		gateway:   new(MockGateway),
		orders:    newMemOrders(orders...),
		publisher: &recordingPublisher{},
		metrics:   metrics.New("test", prometheus.NewRegistry()),
	}
	f.service = NewService(f.gateway, f.orders, f.publisher,
		NewRateTable(map[string]float64{"RON": 1, "EUR": 0.2, "USD": 0.22, "GBP": 0.25}),
		f.metrics, zap.NewNop())
	return f
}
