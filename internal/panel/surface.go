package panel

import (
	"sync"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/form"
	"github.com/spec-kit/staff-directory/internal/presentation"
)

// Surface is where the panel writes display-ready data. It never reads back.
type Surface interface {
	RenderStaff(rows []presentation.StaffRow)
	RenderFilters(venues, statuses []presentation.Option, selection domain.FilterSelection)
	RenderLoadError(message string)
	ShowDetail(detail presentation.StaffDetail)
	ShowEditForm(fields form.Fields)
	CloseModals()
	Notify(n Notification)
}

// View is a point-in-time copy of a ViewState.
type View struct {
	Rows          []presentation.StaffRow   `json:"rows"`
	VenueOptions  []presentation.Option     `json:"venue_options"`
	StatusOptions []presentation.Option     `json:"status_options"`
	Filter        domain.FilterSelection    `json:"filter"`
	LoadError     string                    `json:"load_error,omitempty"`
	Detail        *presentation.StaffDetail `json:"detail,omitempty"`
	EditForm      *form.Fields              `json:"edit_form,omitempty"`
	Notifications []Notification            `json:"notifications"`
}

// ViewState is a Surface that keeps the latest rendered state so it can be
// served as JSON.
type ViewState struct {
	mu   sync.Mutex
	view View
}

// NewViewState returns an empty state.
func NewViewState() *ViewState {
	return &ViewState{view: View{Rows: []presentation.StaffRow{}, Notifications: []Notification{}}}
}

func (v *ViewState) RenderStaff(rows []presentation.StaffRow) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Rows = rows
	v.view.LoadError = ""
}

func (v *ViewState) RenderFilters(venues, statuses []presentation.Option, selection domain.FilterSelection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.VenueOptions = venues
	v.view.StatusOptions = statuses
	v.view.Filter = selection
}

// RenderLoadError clears the table so no stale rows are shown next to the error.
func (v *ViewState) RenderLoadError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Rows = []presentation.StaffRow{}
	v.view.LoadError = message
}

func (v *ViewState) ShowDetail(detail presentation.StaffDetail) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Detail = &detail
	v.view.EditForm = nil
}

func (v *ViewState) ShowEditForm(fields form.Fields) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.EditForm = &fields
	v.view.Detail = nil
}

func (v *ViewState) CloseModals() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Detail = nil
	v.view.EditForm = nil
}

func (v *ViewState) Notify(n Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Notifications = append(v.view.Notifications, n)
}

// Snapshot copies the state and drains pending notifications.
func (v *ViewState) Snapshot() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.view
	out.Rows = append([]presentation.StaffRow{}, v.view.Rows...)
	out.Notifications = v.view.Notifications
	v.view.Notifications = []Notification{}
	return out
}
