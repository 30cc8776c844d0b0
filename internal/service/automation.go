package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"orderflow/internal/dto"
	"orderflow/internal/model"
	"orderflow/internal/repository"
)

type AutomationService interface {
	List(ctx context.Context) ([]model.AutomationSubscription, error)
	Create(ctx context.Context, req *dto.AutomationRequest) (*model.AutomationSubscription, error)
	Update(ctx context.Context, id uint, req *dto.AutomationRequest) (*model.AutomationSubscription, error)
	Delete(ctx context.Context, id uint) error
	// Test fires a synthetic payload at the subscription's endpoint.
	Test(ctx context.Context, id uint) error
}

type automationServiceImpl struct {
	automationRepo repository.AutomationRepository
	dispatcher     *Dispatcher
}

func NewAutomationService(automationRepo repository.AutomationRepository, dispatcher *Dispatcher) AutomationService {
	return &automationServiceImpl{
		automationRepo: automationRepo,
		dispatcher:     dispatcher,
	}
}

func (s *automationServiceImpl) List(ctx context.Context) ([]model.AutomationSubscription, error) {
	return s.automationRepo.List(ctx)
}

func (s *automationServiceImpl) Create(ctx context.Context, req *dto.AutomationRequest) (*model.AutomationSubscription, error) {
	if err := validateAutomation(req); err != nil {
		return nil, err
	}

	sub := &model.AutomationSubscription{
		Name:         req.Name,
		TriggerEvent: req.TriggerEvent,
		WebhookURL:   req.WebhookURL,
		IsActive:     true,
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := s.automationRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *automationServiceImpl) Update(ctx context.Context, id uint, req *dto.AutomationRequest) (*model.AutomationSubscription, error) {
	if err := validateAutomation(req); err != nil {
		return nil, err
	}

	sub, err := s.automationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.Name = req.Name
	sub.TriggerEvent = req.TriggerEvent
	sub.WebhookURL = req.WebhookURL
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := s.automationRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *automationServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.automationRepo.Delete(ctx, id)
}

func (s *automationServiceImpl) Test(ctx context.Context, id uint) error {
	sub, err := s.automationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return s.dispatcher.SendTest(ctx, sub)
}

func validateAutomation(req *dto.AutomationRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name", ErrValidation)
	}
	if strings.TrimSpace(req.TriggerEvent) == "" {
		return fmt.Errorf("%w: trigger_event", ErrValidation)
	}
	u, err := url.Parse(req.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: webhook_url must be an absolute http(s) url", ErrValidation)
	}
	return nil
}
