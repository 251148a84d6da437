package presentation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spec-kit/staff-directory/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestInitials(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"jane", "doe", "JD"},
		{"Jane", "", "J"},
		{"", "doe", "D"},
		{"", "", ""},
		{"  ", " ", ""},
		{"émile", "zola", "ÉZ"},
		{"Mary-Ann", "O'Neil", "MO"},
	}
	for _, tt := range tests {
		got := Initials(tt.first, tt.last)
		if got != tt.want {
			t.Errorf("Initials(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
		if utf8.RuneCountInString(got) > 2 {
			t.Errorf("Initials(%q, %q) longer than 2 runes", tt.first, tt.last)
		}
		if got != strings.ToUpper(got) {
			t.Errorf("Initials(%q, %q) = %q is not uppercase", tt.first, tt.last, got)
		}
	}
}

func TestFormatEmploymentType(t *testing.T) {
	known := map[domain.EmploymentType]string{
		domain.EmploymentFullTime: "Full Time",
		domain.EmploymentPartTime: "Part Time",
		domain.EmploymentCasual:   "Casual",
		domain.EmploymentContract: "Contract",
	}
	for in, want := range known {
		if got := FormatEmploymentType(in); got != want {
			t.Errorf("FormatEmploymentType(%q) = %q, want %q", in, got, want)
		}
	}
	for _, unknown := range []domain.EmploymentType{"", "seasonal", "FULL_TIME", "apprentice"} {
		if got := FormatEmploymentType(unknown); got != string(unknown) {
			t.Errorf("FormatEmploymentType(%q) = %q, want identity", unknown, got)
		}
	}
}

func TestStatusSeverity(t *testing.T) {
	tests := map[domain.EmploymentStatus]Severity{
		domain.StatusActive:     SeveritySuccess,
		domain.StatusInactive:   SeverityWarning,
		domain.StatusTerminated: SeverityDanger,
		"":                      SeveritySecondary,
		"suspended":             SeveritySecondary,
		"ACTIVE":                SeveritySecondary,
	}
	for in, want := range tests {
		if got := StatusSeverity(in); got != want {
			t.Errorf("StatusSeverity(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStaffRowsResolvesVenues(t *testing.T) {
	venues := []domain.VenueSummary{{VenueCode: "SYD01", VenueName: "Sydney CBD"}}
	records := []domain.StaffRecord{
		{StaffCode: "S2", FirstName: "Ann", LastName: "Lee", VenueCode: strPtr("SYD01"), EmploymentStatus: domain.StatusActive, AccessLevel: domain.AccessLevelManager},
		{StaffCode: "S1", FirstName: "Bob", MiddleName: strPtr("J"), LastName: "Ray", EmploymentStatus: "on_leave", EmploymentType: "seasonal"},
		{StaffCode: "S3", FirstName: "Cy", LastName: "Moe", VenueCode: strPtr("GONE")},
	}

	rows := StaffRows(records, venues)
	if len(rows) != 3 || rows[0].StaffCode != "S2" || rows[1].StaffCode != "S1" {
		t.Fatalf("rows not in input order: %+v", rows)
	}
	if rows[0].Venue != "Sydney CBD" || rows[0].AccessLevel != "Manager" || rows[0].Severity != SeveritySuccess {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Venue != "Unassigned" || rows[1].Name != "Bob J Ray" || rows[1].RoleTitle != "-" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[1].EmploymentType != "seasonal" || rows[1].Severity != SeveritySecondary {
		t.Fatalf("unknown enums should pass through: %+v", rows[1])
	}
	if rows[2].Venue != "GONE" {
		t.Fatalf("unknown venue should show its code, got %q", rows[2].Venue)
	}
}

func TestDetailIncludesRatesAndBanking(t *testing.T) {
	rec := domain.StaffRecord{
		StaffCode:       "S1",
		FirstName:       "Ann",
		LastName:        "Lee",
		WeekdayRate:     28.5,
		OvertimeRate:    42,
		DefaultHours:    38,
		BankAccountName: strPtr("A Lee"),
	}
	d := Detail(rec, nil)
	if len(d.Rates) != 5 || d.Rates[0].Value != "$28.50" || d.Rates[4].Value != "$42.00" {
		t.Fatalf("unexpected rates: %+v", d.Rates)
	}
	if d.DefaultHours != "38" || d.BankAccount != "A Lee" || d.BankBSB != "-" {
		t.Fatalf("unexpected detail: %+v", d)
	}
}

func TestOptions(t *testing.T) {
	venues := VenueOptions([]domain.VenueSummary{{VenueCode: "V1", VenueName: "One"}})
	if len(venues) != 2 || venues[0].Value != domain.FilterAll || venues[1].Label != "One" {
		t.Fatalf("unexpected venue options: %+v", venues)
	}
	statuses := StatusOptions()
	if len(statuses) != 4 || statuses[1] != (Option{Value: "active", Label: "Active"}) {
		t.Fatalf("unexpected status options: %+v", statuses)
	}
}
