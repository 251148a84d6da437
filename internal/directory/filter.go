package directory

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// FilterController owns the active venue/status selection. Filtering is a
// UI convenience, so unrecognized values fail open to "all".
type FilterController struct {
	store *Store

	mu        sync.Mutex
	selection domain.FilterSelection
}

// NewFilterController starts with both facets set to "all".
func NewFilterController(store *Store) *FilterController {
	return &FilterController{store: store, selection: domain.DefaultFilter()}
}

// SetVenueFilter selects a venue. Codes not among the loaded venues become "all".
func (f *FilterController) SetVenueFilter(value string) {
	value = strings.TrimSpace(value)
	if value == "" || value == domain.FilterAll || (f.store.VenuesLoaded() && !f.store.HasVenue(value)) {
		value = domain.FilterAll
	}
	f.mu.Lock()
	f.selection.Venue = value
	f.mu.Unlock()
}

// SetStatusFilter selects an employment status. Unknown statuses become "all".
func (f *FilterController) SetStatusFilter(value string) {
	value = strings.TrimSpace(value)
	if !domain.EmploymentStatus(value).Valid() {
		value = domain.FilterAll
	}
	f.mu.Lock()
	f.selection.Status = value
	f.mu.Unlock()
}

// Selection returns the current selection.
func (f *FilterController) Selection() domain.FilterSelection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection
}

// Reset returns both facets to "all".
func (f *FilterController) Reset() {
	f.mu.Lock()
	f.selection = domain.DefaultFilter()
	f.mu.Unlock()
}

// Apply reloads the staff list with the current selection.
func (f *FilterController) Apply(ctx context.Context) ([]domain.StaffRecord, error) {
	return f.store.LoadStaff(ctx, f.store.Auth().BusinessCode, f.Selection())
}
