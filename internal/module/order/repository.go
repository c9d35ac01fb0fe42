package order

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/platipay/server/internal/utils/pagination"
)

// Repository defines the interface for order data access.
type Repository interface {
	GetOrder(ctx context.Context, id int) (*Order, error)
	UpdateOrder(ctx context.Context, order *Order) error
	CreateOrderNote(ctx context.Context, note *OrderNote) error
	ListOrderNotes(ctx context.Context, orderID int, p *pagination.Pagination) ([]*OrderNote, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrder(ctx context.Context, id int) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOrder writes the full row. Concurrent writers overwrite each other.
func (r *repository) UpdateOrder(ctx context.Context, order *Order) error {
	result := r.db.WithContext(ctx).Save(order)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *repository) CreateOrderNote(ctx context.Context, note *OrderNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// ListOrderNotes returns one page of notes, oldest first, with the total count.
func (r *repository) ListOrderNotes(ctx context.Context, orderID int, p *pagination.Pagination) ([]*OrderNote, int64, error) {
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&OrderNote{}).Where("order_id = ?", orderID)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []*OrderNote
	err := scope().
		Order("created_on_utc ASC, id ASC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}
