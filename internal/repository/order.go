package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"orderflow/internal/model"
)

var (
	ErrDuplicateReference = errors.New("transaction reference already used")
	ErrOrderNotFound      = errors.New("order not found")
)

// OrderFilter narrows List results for the admin review screen.
type OrderFilter struct {
	ManualOnly  bool
	OrderStatus model.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByReference(ctx context.Context, ref string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	// ApplyTransition moves the order out of Pending/Unpaid into the target
	// statuses. It returns false without error when the order has already
	// left the initial state, which serializes racing callbacks and makes
	// admin decisions single-shot.
	ApplyTransition(ctx context.Context, orderID string, t model.Transition, gatewayValidationID string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

// Create inserts the order in a single statement; the unique index on
// transaction_ref is what makes the duplicate check atomic under
// concurrent submissions.
func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicateReference
	}
	return err
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByReference(ctx context.Context, ref string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("transaction_ref = ?", ref).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.ManualOnly {
		q = q.Where("mfs_provider <> ''")
	}
	if filter.OrderStatus != "" {
		q = q.Where("order_status = ?", filter.OrderStatus)
	}

	var orders []model.Order
	err := q.Order("created_at DESC").Find(&orders).Error

	return orders, err
}

func (r *orderRepoImpl) ApplyTransition(ctx context.Context, orderID string, t model.Transition, gatewayValidationID string) (bool, error) {
	updates := map[string]interface{}{
		"order_status":   t.OrderStatus,
		"payment_status": t.PaymentStatus,
		"updated_at":     time.Now(),
	}
	if gatewayValidationID != "" {
		updates["gateway_validation_id"] = gatewayValidationID
	}

	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND order_status = ? AND payment_status = ?",
			orderID, model.OrderPending, model.PaymentUnpaid).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// fallbacks for drivers that predate gorm's error translation
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
