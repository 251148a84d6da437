// Package directory holds the panel's in-memory staff and venue caches.
package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/events"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// ErrStaleResponse is returned when a staff load completed after a newer one
// had already completed, successfully or not. The cache is left untouched.
var ErrStaleResponse = errors.New("stale staff response discarded")

// Source is the subset of the staff API the store reads from.
type Source interface {
	ListVenues(ctx context.Context, auth domain.AuthContext, businessCode string) ([]domain.VenueSummary, error)
	ListStaff(ctx context.Context, auth domain.AuthContext, filter domain.FilterSelection) ([]domain.StaffRecord, error)
}

// Store caches the staff list and venue list of one business. Successful
// loads are the only writers; readers get copies.
type Store struct {
	source     Source
	auth       domain.AuthContext
	logger     *zap.Logger
	dispatcher events.Dispatcher

	mu      sync.RWMutex
	venues  []domain.VenueSummary
	staff   []domain.StaffRecord
	byCode  map[string]int
	filter  domain.FilterSelection
	latest  uint64

	issued atomic.Uint64
}

// NewStore builds an empty store scoped to auth.
func NewStore(source Source, auth domain.AuthContext, dispatcher events.Dispatcher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		source:     source,
		auth:       auth,
		logger:     logger,
		dispatcher: dispatcher,
		byCode:     map[string]int{},
		filter:     domain.DefaultFilter(),
	}
}

// LoadVenues replaces the venue cache for businessCode. On failure the prior
// cache stays and the error is logged and returned.
func (s *Store) LoadVenues(ctx context.Context, businessCode string) ([]domain.VenueSummary, error) {
	if businessCode == "" {
		err := apperrors.NewContextError("business code is required to load venues")
		s.logger.Warn("venue load skipped", zap.Error(err))
		return s.Venues(), err
	}

	venues, err := s.source.ListVenues(ctx, s.auth, businessCode)
	if err != nil {
		s.logger.Warn("venue load failed", zap.String("business_code", businessCode), zap.Error(err))
		return s.Venues(), err
	}

	s.mu.Lock()
	s.venues = append([]domain.VenueSummary(nil), venues...)
	s.mu.Unlock()

	s.publish(ctx, events.New(events.EventVenuesLoaded, businessCode, "", events.VenuesLoadedPayload{Count: len(venues)}))
	return s.Venues(), nil
}

// LoadStaff fetches the staff list for filter and replaces the whole cache.
// The filter is applied again locally so the cache only ever holds matching
// records. A response, or failure, that completes after a later-issued load
// has completed is discarded with ErrStaleResponse.
func (s *Store) LoadStaff(ctx context.Context, businessCode string, filter domain.FilterSelection) ([]domain.StaffRecord, error) {
	seq := s.issued.Add(1)

	if businessCode == "" {
		return nil, s.loadFailed(ctx, seq, businessCode, filter,
			apperrors.NewContextError("business code is required to load staff"))
	}

	records, err := s.source.ListStaff(ctx, s.auth, filter)
	if err != nil {
		return nil, s.loadFailed(ctx, seq, businessCode, filter, err)
	}

	visible := make([]domain.StaffRecord, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		if !filter.Matches(rec) {
			continue
		}
		if _, dup := index[rec.StaffCode]; dup {
			s.logger.Warn("duplicate staff code in response", zap.String("staff_code", rec.StaffCode))
			continue
		}
		index[rec.StaffCode] = len(visible)
		visible = append(visible, rec)
	}

	s.mu.Lock()
	if !s.claim(seq) {
		s.mu.Unlock()
		s.logger.Debug("discarding stale staff response", zap.Uint64("seq", seq))
		return s.Staff(), ErrStaleResponse
	}
	s.staff = visible
	s.byCode = index
	s.filter = filter
	s.mu.Unlock()

	s.publish(ctx, events.New(events.EventStaffLoaded, businessCode, "", events.StaffLoadedPayload{Filter: filter, Count: len(visible), Seq: seq}))
	return copyStaff(visible), nil
}

// GetByCode looks a record up in the cache. It may predate the latest edit
// if no reload happened since.
func (s *Store) GetByCode(staffCode string) (domain.StaffRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byCode[staffCode]
	if !ok {
		return domain.StaffRecord{}, false
	}
	return s.staff[i], true
}

// Staff returns a copy of the cached staff list.
func (s *Store) Staff() []domain.StaffRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyStaff(s.staff)
}

// Visible returns the cached records that pass filter.
func (s *Store) Visible(filter domain.FilterSelection) []domain.StaffRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StaffRecord, 0, len(s.staff))
	for _, rec := range s.staff {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Venues returns a copy of the cached venues.
func (s *Store) Venues() []domain.VenueSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.VenueSummary(nil), s.venues...)
}

// HasVenue reports whether code is a loaded venue.
func (s *Store) HasVenue(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.venues {
		if v.VenueCode == code {
			return true
		}
	}
	return false
}

// VenuesLoaded reports whether any venues are cached.
func (s *Store) VenuesLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.venues) > 0
}

// LastFilter returns the filter of the last applied staff load.
func (s *Store) LastFilter() domain.FilterSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Auth returns the context the store was scoped to.
func (s *Store) Auth() domain.AuthContext {
	return s.auth
}

// Reset drops both caches.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues = nil
	s.staff = nil
	s.byCode = map[string]int{}
	s.filter = domain.DefaultFilter()
}

// claim records seq as the newest completed load. It reports false when a
// later-issued load already completed. Callers hold s.mu.
func (s *Store) claim(seq uint64) bool {
	if seq < s.latest {
		return false
	}
	s.latest = seq
	return true
}

func (s *Store) loadFailed(ctx context.Context, seq uint64, businessCode string, filter domain.FilterSelection, err error) error {
	s.mu.Lock()
	current := s.claim(seq)
	s.mu.Unlock()
	if !current {
		s.logger.Debug("discarding stale staff failure", zap.Uint64("seq", seq), zap.Error(err))
		return ErrStaleResponse
	}

	code := apperrors.ToDomainError(err).Code
	s.logger.Warn("staff load failed",
		zap.String("business_code", businessCode),
		zap.String("venue_filter", filter.Venue),
		zap.String("status_filter", filter.Status),
		zap.String("code", code),
		zap.Error(err))
	s.publish(ctx, events.New(events.EventStaffLoadFailed, businessCode, "", events.StaffLoadFailedPayload{
		Filter: filter,
		Code:   code,
		Reason: apperrors.ToDomainError(err).Message,
	}))
	return err
}

func (s *Store) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func copyStaff(in []domain.StaffRecord) []domain.StaffRecord {
	return append([]domain.StaffRecord(nil), in...)
}
