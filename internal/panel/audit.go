package panel

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/events"
)

// AuditLog writes directory events to the structured log.
type AuditLog struct {
	logger *zap.Logger
}

// NewAuditLog creates the audit logger.
func NewAuditLog(logger *zap.Logger) *AuditLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLog{logger: logger}
}

// RegisterHandlers subscribes to the mutation and load failure events and
// returns a function that removes every subscription.
func (a *AuditLog) RegisterHandlers(dispatcher events.Dispatcher) func() {
	if dispatcher == nil {
		return func() {}
	}
	unsubs := []func(){
		dispatcher.Subscribe(events.EventStaffCreated, a.handleStaffChanged),
		dispatcher.Subscribe(events.EventStaffUpdated, a.handleStaffChanged),
		dispatcher.Subscribe(events.EventStaffDeleted, a.handleStaffChanged),
		dispatcher.Subscribe(events.EventStaffLoadFailed, a.handleLoadFailed),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (a *AuditLog) handleStaffChanged(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("business_code", event.BusinessCode),
		zap.String("staff_code", event.StaffCode),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditLog) handleLoadFailed(_ context.Context, event events.Event) error {
	a.logger.Warn(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("business_code", event.BusinessCode),
		zap.Any("payload", event.Payload))
	return nil
}
