package domain

import "testing"

func TestFilterSelectionMatches(t *testing.T) {
	venue := "SYD01"
	other := "MEL01"
	records := []StaffRecord{
		{StaffCode: "A", VenueCode: &venue, EmploymentStatus: StatusActive},
		{StaffCode: "B", VenueCode: &other, EmploymentStatus: StatusActive},
		{StaffCode: "C", VenueCode: &venue, EmploymentStatus: StatusTerminated},
		{StaffCode: "D", EmploymentStatus: StatusActive},
	}

	tests := []struct {
		name   string
		filter FilterSelection
		want   []string
	}{
		{"all", DefaultFilter(), []string{"A", "B", "C", "D"}},
		{"empty facets", FilterSelection{}, []string{"A", "B", "C", "D"}},
		{"venue", FilterSelection{Venue: venue, Status: FilterAll}, []string{"A", "C"}},
		{"status", FilterSelection{Venue: FilterAll, Status: "active"}, []string{"A", "B", "D"}},
		{"both", FilterSelection{Venue: venue, Status: "active"}, []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, rec := range records {
				if tt.filter.Matches(rec) {
					got = append(got, rec.StaffCode)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestStaffUpdateRequestApplyKeepsIdentity(t *testing.T) {
	rec := StaffRecord{StaffCode: "S1", BusinessCode: "B1", KioskPin: "1234", FirstName: "Old"}
	StaffUpdateRequest{FirstName: "New", LastName: "Name", DefaultHours: 20}.Apply(&rec)

	if rec.StaffCode != "S1" || rec.BusinessCode != "B1" || rec.KioskPin != "1234" {
		t.Fatalf("identity fields changed: %+v", rec)
	}
	if rec.FirstName != "New" || rec.DefaultHours != 20 {
		t.Fatalf("editable fields not applied: %+v", rec)
	}
}
