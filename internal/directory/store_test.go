package directory

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/events"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

var testAuth = domain.AuthContext{BusinessCode: "BIZ1", AccessLevel: domain.AccessLevelManager}

func strPtr(s string) *string { return &s }

// fakeSource filters like the staff API does and can be told to fail or block.
type fakeSource struct {
	mu         sync.Mutex
	venues     []domain.VenueSummary
	staff      []domain.StaffRecord
	venueErr   error
	staffErr   error
	failVenue  map[string]error
	staffCalls int
	lastFilter domain.FilterSelection
	hold       map[string]chan struct{}
	entered    chan string
}

func (f *fakeSource) ListVenues(_ context.Context, _ domain.AuthContext, _ string) ([]domain.VenueSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.venueErr != nil {
		return nil, f.venueErr
	}
	return append([]domain.VenueSummary(nil), f.venues...), nil
}

func (f *fakeSource) ListStaff(_ context.Context, _ domain.AuthContext, filter domain.FilterSelection) ([]domain.StaffRecord, error) {
	f.mu.Lock()
	f.staffCalls++
	f.lastFilter = filter
	hold := f.hold[filter.Venue]
	entered := f.entered
	err := f.staffErr
	if venueErr, ok := f.failVenue[filter.Venue]; ok {
		err = venueErr
	}
	all := append([]domain.StaffRecord(nil), f.staff...)
	f.mu.Unlock()

	if hold != nil {
		if entered != nil {
			entered <- filter.Venue
		}
		<-hold
	}
	if err != nil {
		return nil, err
	}
	out := []domain.StaffRecord{}
	for _, rec := range all {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func fixtureStaff() []domain.StaffRecord {
	return []domain.StaffRecord{
		{StaffCode: "E1", VenueCode: strPtr("SYD01"), EmploymentStatus: domain.StatusActive},
		{StaffCode: "E2", VenueCode: strPtr("SYD01"), EmploymentStatus: domain.StatusInactive},
		{StaffCode: "E3", VenueCode: strPtr("MEL01"), EmploymentStatus: domain.StatusActive},
		{StaffCode: "E4", EmploymentStatus: domain.StatusTerminated},
		{StaffCode: "E5", VenueCode: strPtr("MEL01"), EmploymentStatus: domain.StatusActive},
	}
}

func fixtureVenues() []domain.VenueSummary {
	return []domain.VenueSummary{{VenueCode: "SYD01", VenueName: "Sydney"}, {VenueCode: "MEL01", VenueName: "Melbourne"}}
}

func codes(records []domain.StaffRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.StaffCode)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadStaffActiveFilterKeepsServerOrder(t *testing.T) {
	src := &fakeSource{staff: fixtureStaff()}
	store := NewStore(src, testAuth, nil, nil)

	got, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: domain.FilterAll, Status: "active"})
	if err != nil {
		t.Fatalf("LoadStaff() error = %v", err)
	}
	if want := []string{"E1", "E3", "E5"}; !equal(codes(got), want) {
		t.Fatalf("got %v, want %v", codes(got), want)
	}
	if !equal(codes(store.Staff()), []string{"E1", "E3", "E5"}) {
		t.Fatalf("cache = %v", codes(store.Staff()))
	}
}

func TestLoadStaffAppliesFilterLocally(t *testing.T) {
	// A server that ignores the status facet still yields a filtered cache.
	src := &fakeSource{staff: fixtureStaff()}
	store := NewStore(ignoringStatus{src}, testAuth, nil, nil)

	got, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: "SYD01", Status: "inactive"})
	if err != nil {
		t.Fatalf("LoadStaff() error = %v", err)
	}
	if !equal(codes(got), []string{"E2"}) {
		t.Fatalf("got %v", codes(got))
	}
}

type ignoringStatus struct{ *fakeSource }

func (s ignoringStatus) ListStaff(ctx context.Context, auth domain.AuthContext, filter domain.FilterSelection) ([]domain.StaffRecord, error) {
	filter.Status = domain.FilterAll
	return s.fakeSource.ListStaff(ctx, auth, filter)
}

func TestLoadStaffFailureKeepsCache(t *testing.T) {
	src := &fakeSource{staff: fixtureStaff()}
	dispatcher := events.NewInMemoryDispatcher()
	var failures []events.Event
	dispatcher.Subscribe(events.EventStaffLoadFailed, func(_ context.Context, e events.Event) error {
		failures = append(failures, e)
		return nil
	})
	store := NewStore(src, testAuth, dispatcher, nil)

	if _, err := store.LoadStaff(context.Background(), "BIZ1", domain.DefaultFilter()); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	src.staffErr = apperrors.NewRemoteError("Database unavailable", http.StatusServiceUnavailable)
	src.mu.Unlock()

	_, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: domain.FilterAll, Status: "active"})
	if !apperrors.HasCode(err, apperrors.CodeRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if len(store.Staff()) != 5 {
		t.Fatalf("cache changed on failure: %v", codes(store.Staff()))
	}
	if store.LastFilter() != domain.DefaultFilter() {
		t.Fatalf("filter changed on failure: %+v", store.LastFilter())
	}
	if len(failures) != 1 {
		t.Fatalf("expected one failure event, got %d", len(failures))
	}
}

func TestLoadStaffWithoutBusinessIsContextError(t *testing.T) {
	src := &fakeSource{staff: fixtureStaff()}
	store := NewStore(src, testAuth, nil, nil)

	_, err := store.LoadStaff(context.Background(), "", domain.DefaultFilter())
	if !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected context error, got %v", err)
	}
	if src.staffCalls != 0 {
		t.Fatal("source should not be called without a business code")
	}
}

func TestLoadVenuesFailureKeepsPriorCache(t *testing.T) {
	src := &fakeSource{venues: fixtureVenues()}
	store := NewStore(src, testAuth, nil, nil)

	if _, err := store.LoadVenues(context.Background(), "BIZ1"); err != nil {
		t.Fatal(err)
	}
	src.mu.Lock()
	src.venueErr = apperrors.NewNetworkError(errors.New("connection refused"))
	src.mu.Unlock()

	venues, err := store.LoadVenues(context.Background(), "BIZ1")
	if !apperrors.HasCode(err, apperrors.CodeNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if len(venues) != 2 || len(store.Venues()) != 2 {
		t.Fatalf("venue cache changed on failure: %+v", store.Venues())
	}

	if _, err := store.LoadVenues(context.Background(), ""); !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestGetByCode(t *testing.T) {
	src := &fakeSource{staff: fixtureStaff()}
	store := NewStore(src, testAuth, nil, nil)
	if _, ok := store.GetByCode("E1"); ok {
		t.Fatal("empty cache should not find records")
	}
	if _, err := store.LoadStaff(context.Background(), "BIZ1", domain.DefaultFilter()); err != nil {
		t.Fatal(err)
	}
	rec, ok := store.GetByCode("E3")
	if !ok || *rec.VenueCode != "MEL01" {
		t.Fatalf("GetByCode(E3) = %+v, %v", rec, ok)
	}
	if _, ok := store.GetByCode("missing"); ok {
		t.Fatal("unexpected hit for missing code")
	}
}

func TestLoadStaffDropsDuplicateCodes(t *testing.T) {
	staff := append(fixtureStaff(), domain.StaffRecord{StaffCode: "E1", EmploymentStatus: domain.StatusActive})
	store := NewStore(&fakeSource{staff: staff}, testAuth, nil, nil)

	got, err := store.LoadStaff(context.Background(), "BIZ1", domain.DefaultFilter())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("expected duplicates dropped, got %v", codes(got))
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{
		staff:   fixtureStaff(),
		hold:    map[string]chan struct{}{"SYD01": release},
		entered: make(chan string, 1),
	}
	store := NewStore(src, testAuth, nil, nil)

	type result struct {
		records []domain.StaffRecord
		err     error
	}
	slow := make(chan result, 1)
	go func() {
		records, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: "SYD01", Status: domain.FilterAll})
		slow <- result{records, err}
	}()
	<-src.entered

	fresh, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: "MEL01", Status: domain.FilterAll})
	if err != nil {
		t.Fatalf("fresh load error = %v", err)
	}
	if !equal(codes(fresh), []string{"E3", "E5"}) {
		t.Fatalf("fresh = %v", codes(fresh))
	}

	close(release)
	old := <-slow
	if !errors.Is(old.err, ErrStaleResponse) {
		t.Fatalf("expected stale response, got %v", old.err)
	}
	if !equal(codes(store.Staff()), []string{"E3", "E5"}) {
		t.Fatalf("stale response overwrote cache: %v", codes(store.Staff()))
	}
	if store.LastFilter().Venue != "MEL01" {
		t.Fatalf("filter = %+v", store.LastFilter())
	}
}

func TestOlderResponseDiscardedAfterNewerLoadFails(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{
		staff:     fixtureStaff(),
		hold:      map[string]chan struct{}{"SYD01": release},
		entered:   make(chan string, 1),
		failVenue: map[string]error{"MEL01": apperrors.NewNetworkError(errors.New("boom"))},
	}
	dispatcher := events.NewInMemoryDispatcher()
	var loaded int
	dispatcher.Subscribe(events.EventStaffLoaded, func(_ context.Context, _ events.Event) error {
		loaded++
		return nil
	})
	store := NewStore(src, testAuth, dispatcher, nil)

	slow := make(chan error, 1)
	go func() {
		_, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: "SYD01", Status: domain.FilterAll})
		slow <- err
	}()
	<-src.entered

	if _, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: "MEL01", Status: domain.FilterAll}); !apperrors.HasCode(err, apperrors.CodeNetwork) {
		t.Fatalf("expected network error from newer load, got %v", err)
	}

	close(release)
	if err := <-slow; !errors.Is(err, ErrStaleResponse) {
		t.Fatalf("expected stale response, got %v", err)
	}
	if len(store.Staff()) != 0 {
		t.Fatalf("stale response filled cache: %v", codes(store.Staff()))
	}
	if store.LastFilter().Venue != domain.FilterAll {
		t.Fatalf("filter = %+v", store.LastFilter())
	}
	if loaded != 0 {
		t.Fatalf("staff_loaded published %d times for a stale response", loaded)
	}
}

func TestOlderFailureDiscardedAfterNewerLoad(t *testing.T) {
	release := make(chan struct{})
	src := &fakeSource{
		staff:     fixtureStaff(),
		hold:      map[string]chan struct{}{"SYD01": release},
		entered:   make(chan string, 1),
		failVenue: map[string]error{"SYD01": apperrors.NewRemoteError("backend down", http.StatusServiceUnavailable)},
	}
	dispatcher := events.NewInMemoryDispatcher()
	var failed int
	dispatcher.Subscribe(events.EventStaffLoadFailed, func(_ context.Context, _ events.Event) error {
		failed++
		return nil
	})
	store := NewStore(src, testAuth, dispatcher, nil)

	slow := make(chan error, 1)
	go func() {
		_, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: "SYD01", Status: domain.FilterAll})
		slow <- err
	}()
	<-src.entered

	if _, err := store.LoadStaff(context.Background(), "BIZ1", domain.FilterSelection{Venue: "MEL01", Status: domain.FilterAll}); err != nil {
		t.Fatalf("fresh load error = %v", err)
	}

	close(release)
	if err := <-slow; !errors.Is(err, ErrStaleResponse) {
		t.Fatalf("expected stale failure to be discarded, got %v", err)
	}
	if failed != 0 {
		t.Fatalf("staff_load_failed published %d times for a stale failure", failed)
	}
	if !equal(codes(store.Staff()), []string{"E3", "E5"}) {
		t.Fatalf("cache = %v", codes(store.Staff()))
	}
}

func TestLoadPublishesEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	for _, et := range []events.EventType{events.EventVenuesLoaded, events.EventStaffLoaded} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			seen = append(seen, e.Type)
			return nil
		})
	}
	store := NewStore(&fakeSource{venues: fixtureVenues(), staff: fixtureStaff()}, testAuth, dispatcher, nil)

	if _, err := store.LoadVenues(context.Background(), "BIZ1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadStaff(context.Background(), "BIZ1", domain.DefaultFilter()); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != events.EventVenuesLoaded || seen[1] != events.EventStaffLoaded {
		t.Fatalf("events = %v", seen)
	}
}
