package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVenuesLoaded    EventType = "venues_loaded"
	EventStaffLoaded     EventType = "staff_loaded"
	EventStaffLoadFailed EventType = "staff_load_failed"
	EventStaffCreated    EventType = "staff_created"
	EventStaffUpdated    EventType = "staff_updated"
	EventStaffDeleted    EventType = "staff_deleted"
)

// Event represents a directory change published by the store or the panel.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	BusinessCode string      `json:"business_code"`
	StaffCode    string      `json:"staff_code,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, businessCode, staffCode string, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		BusinessCode: businessCode,
		StaffCode:    staffCode,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}

// VenuesLoadedPayload payload.
type VenuesLoadedPayload struct {
	Count int `json:"count"`
}

// StaffLoadedPayload payload.
type StaffLoadedPayload struct {
	Filter domain.FilterSelection `json:"filter"`
	Count  int                    `json:"count"`
	Seq    uint64                 `json:"seq"`
}

// StaffLoadFailedPayload payload.
type StaffLoadFailedPayload struct {
	Filter domain.FilterSelection `json:"filter"`
	Code   string                 `json:"code"`
	Reason string                 `json:"reason"`
}

// StaffChangedPayload payload for create, update and delete.
type StaffChangedPayload struct {
	ActorLevel domain.AccessLevel `json:"actor_level"`
	KioskPin   bool               `json:"kiosk_pin_changed,omitempty"`
	Password   bool               `json:"password_changed,omitempty"`
}
