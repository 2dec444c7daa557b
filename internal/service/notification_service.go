package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hrms-service/internal/config"
	"github.com/spec-kit/hrms-service/internal/events"
)

// NotificationService writes the audit trail for domain events and forwards the
// ones people care about to email or webhook stubs.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range []events.EventType{
		events.EventUserLoggedIn,
		events.EventUserCreated,
		events.EventUserStatusChanged,
		events.EventDepartmentChanged,
		events.EventEmployeeChanged,
		events.EventDocumentChanged,
	} {
		n.dispatcher.Subscribe(t, n.audit)
	}
	n.dispatcher.Subscribe(events.EventUserLockedOut, n.handleLockedOut)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
	n.dispatcher.Subscribe(events.EventPasswordResetAsked, n.handlePasswordResetAsked)
}

func (n *NotificationService) audit(_ context.Context, event events.Event) error {
	n.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleLockedOut(ctx context.Context, event events.Event) error {
	n.logger.Warn("UserLockedOut", zap.String("subject_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	_ = n.audit(ctx, event)
	n.sendEmailNotificationStub(ctx, event, "")
	return nil
}

func (n *NotificationService) handlePasswordResetAsked(ctx context.Context, event events.Event) error {
	_ = n.audit(ctx, event)
	payload, ok := event.Payload.(events.PasswordResetPayload)
	if !ok {
		return nil
	}
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
