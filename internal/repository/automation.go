package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"orderflow/internal/model"
)

var ErrSubscriptionNotFound = errors.New("automation subscription not found")

type AutomationRepository interface {
	// FindActiveByEvent is read fresh on every dispatch; subscriptions are
	// admin-editable at any time, so no in-process caching.
	FindActiveByEvent(ctx context.Context, event string) ([]model.AutomationSubscription, error)
	// TouchLastTriggered records a delivery attempt, whatever its outcome.
	TouchLastTriggered(ctx context.Context, id uint, at time.Time) error

	List(ctx context.Context) ([]model.AutomationSubscription, error)
	FindByID(ctx context.Context, id uint) (*model.AutomationSubscription, error)
	Create(ctx context.Context, sub *model.AutomationSubscription) error
	Update(ctx context.Context, sub *model.AutomationSubscription) error
	Delete(ctx context.Context, id uint) error
}

type automationRepoImpl struct {
	db *gorm.DB
}

func NewAutomationRepository(db *gorm.DB) AutomationRepository {
	return &automationRepoImpl{
		db: db,
	}
}

func (r *automationRepoImpl) FindActiveByEvent(ctx context.Context, event string) ([]model.AutomationSubscription, error) {
	var subs []model.AutomationSubscription
	err := r.db.WithContext(ctx).
		Where("trigger_event = ? AND is_active = ?", event, true).
		Find(&subs).Error

	return subs, err
}

func (r *automationRepoImpl) TouchLastTriggered(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.AutomationSubscription{}).
		Where("id = ?", id).
		Update("last_triggered_at", at).Error
}

func (r *automationRepoImpl) List(ctx context.Context) ([]model.AutomationSubscription, error) {
	var subs []model.AutomationSubscription
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&subs).Error

	return subs, err
}

func (r *automationRepoImpl) FindByID(ctx context.Context, id uint) (*model.AutomationSubscription, error) {
	var sub model.AutomationSubscription
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&sub).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *automationRepoImpl) Create(ctx context.Context, sub *model.AutomationSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *automationRepoImpl) Update(ctx context.Context, sub *model.AutomationSubscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *automationRepoImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.AutomationSubscription{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
