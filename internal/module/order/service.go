package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/platipay/server/internal/utils/pagination"
)

// Service implements order operations used by payment reconciliation.
type Service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// GetOrderByID returns the order with the given id.
func (s *Service) GetOrderByID(ctx context.Context, id int) (*Order, error) {
	if id <= 0 {
		return nil, ErrInvalidOrderID
	}
	return s.repo.GetOrder(ctx, id)
}

// UpdateOrder persists the order as given.
func (s *Service) UpdateOrder(ctx context.Context, order *Order) error {
	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("update order %d: %w", order.ID, err)
	}
	s.logger.Debug("order updated",
		zap.Int("order_id", order.ID),
		zap.String("payment_status", order.PaymentStatus.String()),
		zap.String("order_status", order.OrderStatus.String()),
	)
	return nil
}

// InsertOrderNote appends a note. CreatedOnUTC defaults to the current time.
func (s *Service) InsertOrderNote(ctx context.Context, note *OrderNote) error {
	if strings.TrimSpace(note.Note) == "" {
		return ErrEmptyNote
	}
	if note.CreatedOnUTC.IsZero() {
		note.CreatedOnUTC = s.now().UTC()
	}
	if err := s.repo.CreateOrderNote(ctx, note); err != nil {
		return fmt.Errorf("insert order note: %w", err)
	}
	return nil
}

// AddNote appends a note hidden from the customer.
func (s *Service) AddNote(ctx context.Context, orderID int, text string) error {
	return s.InsertOrderNote(ctx, &OrderNote{
		OrderID:           orderID,
		Note:              text,
		DisplayToCustomer: false,
	})
}

// ListNotes returns one page of the notes of an order, oldest first, and the
// total note count.
func (s *Service) ListNotes(ctx context.Context, orderID int, p *pagination.Pagination) ([]*OrderNote, int64, error) {
	if orderID <= 0 {
		return nil, 0, ErrInvalidOrderID
	}
	notes, total, err := s.repo.ListOrderNotes(ctx, orderID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes of order %d: %w", orderID, err)
	}
	return notes, total, nil
}
