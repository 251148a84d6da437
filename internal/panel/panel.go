// Package panel drives the staff directory admin panel: it reacts to user
// actions, keeps the directory cache current and renders into a Surface.
package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/directory"
	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/events"
	"github.com/spec-kit/staff-directory/internal/form"
	"github.com/spec-kit/staff-directory/internal/presentation"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// StaffService is the remote staff API as seen by the panel.
type StaffService interface {
	directory.Source
	FetchDetail(ctx context.Context, auth domain.AuthContext, staffCode string) (*domain.StaffRecord, error)
	Create(ctx context.Context, auth domain.AuthContext, req domain.StaffCreateRequest) (*domain.StaffRecord, error)
	Update(ctx context.Context, auth domain.AuthContext, staffCode string, req domain.StaffUpdateRequest) (*domain.StaffRecord, error)
	Delete(ctx context.Context, auth domain.AuthContext, staffCode string) error
}

// Panel is one mounted admin panel. Actions are serialized; each one turns
// its failure into a Notification on the surface and also returns it.
type Panel struct {
	auth       domain.AuthContext
	service    StaffService
	surface    Surface
	dispatcher events.Dispatcher
	store      *directory.Store
	filters    *directory.FilterController
	audit      *AuditLog
	logger     *zap.Logger

	mu          sync.Mutex
	mounted     bool
	unsubscribe []func()
}

// New builds an unmounted panel for auth.
func New(auth domain.AuthContext, service StaffService, surface Surface, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("business_code", auth.BusinessCode))
	dispatcher := events.NewInMemoryDispatcher()
	store := directory.NewStore(service, auth, dispatcher, logger)
	return &Panel{
		auth:       auth,
		service:    service,
		surface:    surface,
		dispatcher: dispatcher,
		store:      store,
		filters:    directory.NewFilterController(store),
		audit:      NewAuditLog(logger),
		logger:     logger,
	}
}

// Store exposes the directory cache.
func (p *Panel) Store() *directory.Store {
	return p.store
}

// Mounted reports whether Mount has run without a matching Unmount.
func (p *Panel) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// Mount loads venues and then staff. A venue failure is reported but does
// not stop the staff load.
func (p *Panel) Mount(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mounted {
		p.subscribe()
		p.mounted = true
	}

	if !p.auth.Scoped() {
		err := apperrors.NewContextError("business code is missing from the session")
		p.surface.RenderLoadError(NotificationFor(err).Message)
		return p.fail("mount", err)
	}

	if _, err := p.store.LoadVenues(ctx, p.auth.BusinessCode); err != nil {
		p.surface.Notify(NotificationFor(err))
	}
	p.renderFilters()

	return p.reload(ctx, "mount")
}

// ChangeVenueFilter selects a venue and reloads staff.
func (p *Panel) ChangeVenueFilter(ctx context.Context, venue string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters.SetVenueFilter(venue)
	p.renderFilters()
	return p.reload(ctx, "change_venue_filter")
}

// ChangeStatusFilter selects an employment status and reloads staff.
func (p *Panel) ChangeStatusFilter(ctx context.Context, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters.SetStatusFilter(status)
	p.renderFilters()
	return p.reload(ctx, "change_status_filter")
}

// SetFilters applies both facets with a single reload.
func (p *Panel) SetFilters(ctx context.Context, selection domain.FilterSelection) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters.SetVenueFilter(selection.Venue)
	p.filters.SetStatusFilter(selection.Status)
	p.renderFilters()
	return p.reload(ctx, "set_filters")
}

// View shows a cached record. The cache may lag behind the server until the
// next reload.
func (p *Panel) View(staffCode string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.store.GetByCode(staffCode)
	if !ok {
		return p.fail("view", apperrors.NewNotFound("Staff member", map[string]any{"staff_code": staffCode}))
	}
	p.surface.ShowDetail(presentation.Detail(rec, p.store.Venues()))
	return nil
}

// OpenEdit fetches a fresh record and opens the edit form pre-filled with it.
func (p *Panel) OpenEdit(ctx context.Context, staffCode string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, err := p.service.FetchDetail(ctx, p.auth, staffCode)
	if err != nil {
		return p.fail("open_edit", err)
	}
	if rec == nil {
		return p.fail("open_edit", apperrors.NewNotFound("Staff member", map[string]any{"staff_code": staffCode}))
	}
	p.surface.ShowEditForm(form.FromRecord(*rec))
	return nil
}

// SubmitCreate creates a staff member from the add form. On success the
// modal closes and the list reloads; the generated kiosk PIN is shown once.
func (p *Panel) SubmitCreate(ctx context.Context, fields form.Fields) (*domain.StaffRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	req := form.ToCreatePayload(fields)
	rec, err := p.service.Create(ctx, p.auth, req)
	if err != nil {
		return nil, p.fail("create", err)
	}

	message := "Staff member created successfully"
	if rec != nil && rec.KioskPin != "" {
		message = fmt.Sprintf("%s. Kiosk PIN: %s", message, rec.KioskPin)
	}
	p.surface.CloseModals()
	p.surface.Notify(success(message))
	p.publish(ctx, events.EventStaffCreated, req.StaffCode, events.StaffChangedPayload{
		ActorLevel: p.auth.AccessLevel,
		KioskPin:   true,
		Password:   req.Password != "",
	})
	p.reloadAfterMutation(ctx, "create")
	return rec, nil
}

// SubmitUpdate replaces the editable fields of staffCode with the form values.
func (p *Panel) SubmitUpdate(ctx context.Context, staffCode string, fields form.Fields) (*domain.StaffRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	staffCode = strings.TrimSpace(staffCode)
	if staffCode == "" {
		return nil, p.fail("update", apperrors.NewValidationError("staff code is required", nil))
	}
	req := form.ToUpdatePayload(fields)
	rec, err := p.service.Update(ctx, p.auth, staffCode, req)
	if err != nil {
		return nil, p.fail("update", err)
	}

	p.surface.CloseModals()
	p.surface.Notify(success("Staff member updated successfully"))
	p.publish(ctx, events.EventStaffUpdated, staffCode, events.StaffChangedPayload{
		ActorLevel: p.auth.AccessLevel,
		KioskPin:   req.KioskPin != nil,
		Password:   req.Password != nil,
	})
	p.reloadAfterMutation(ctx, "update")
	return rec, nil
}

// Delete removes staffCode once the user has confirmed. On failure the cache
// is left untouched.
func (p *Panel) Delete(ctx context.Context, staffCode string, confirmed bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !confirmed {
		p.surface.Notify(Notification{Kind: NotifyInfo, Title: "Confirm", Message: "Delete was not confirmed"})
		return apperrors.NewValidationError("delete requires confirmation", map[string]any{"staff_code": staffCode})
	}
	if err := p.service.Delete(ctx, p.auth, staffCode); err != nil {
		return p.fail("delete", err)
	}

	p.surface.CloseModals()
	p.surface.Notify(success("Staff member deleted successfully"))
	p.publish(ctx, events.EventStaffDeleted, staffCode, events.StaffChangedPayload{ActorLevel: p.auth.AccessLevel})
	p.reloadAfterMutation(ctx, "delete")
	return nil
}

// Refresh reloads staff with the current filters.
func (p *Panel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reload(ctx, "refresh")
}

// Rows returns the table as currently cached.
func (p *Panel) Rows() []presentation.StaffRow {
	return presentation.StaffRows(p.store.Staff(), p.store.Venues())
}

// Unmount drops subscriptions and caches.
func (p *Panel) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.unsubscribe {
		u()
	}
	p.unsubscribe = nil
	p.store.Reset()
	p.filters.Reset()
	p.mounted = false
}

func (p *Panel) subscribe() {
	p.unsubscribe = append(p.unsubscribe,
		p.dispatcher.Subscribe(events.EventVenuesLoaded, func(context.Context, events.Event) error {
			p.renderFilters()
			p.surface.RenderStaff(p.Rows())
			return nil
		}),
		p.dispatcher.Subscribe(events.EventStaffLoaded, func(context.Context, events.Event) error {
			p.surface.RenderStaff(p.Rows())
			return nil
		}),
		p.dispatcher.Subscribe(events.EventStaffLoadFailed, func(_ context.Context, event events.Event) error {
			message := "Failed to load staff"
			if payload, ok := event.Payload.(events.StaffLoadFailedPayload); ok && payload.Reason != "" {
				message = payload.Reason
			}
			p.surface.RenderLoadError(message)
			return nil
		}),
		p.audit.RegisterHandlers(p.dispatcher),
	)
}

func (p *Panel) renderFilters() {
	p.surface.RenderFilters(presentation.VenueOptions(p.store.Venues()), presentation.StatusOptions(), p.filters.Selection())
}

func (p *Panel) reload(ctx context.Context, action string) error {
	if _, err := p.filters.Apply(ctx); err != nil {
		if errors.Is(err, directory.ErrStaleResponse) {
			return nil
		}
		return p.fail(action, err)
	}
	return nil
}

// reloadAfterMutation reports a failed reload without failing the mutation
// that already succeeded.
func (p *Panel) reloadAfterMutation(ctx context.Context, action string) {
	_ = p.reload(ctx, action+"_reload")
}

func (p *Panel) fail(action string, err error) error {
	n := NotificationFor(err)
	p.logger.Warn("panel action failed",
		zap.String("action", action),
		zap.String("code", n.Code),
		zap.Error(err))
	p.surface.Notify(n)
	return err
}

func (p *Panel) publish(ctx context.Context, eventType events.EventType, staffCode string, payload events.StaffChangedPayload) {
	if err := p.dispatcher.Publish(ctx, events.New(eventType, p.auth.BusinessCode, staffCode, payload)); err != nil {
		p.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
