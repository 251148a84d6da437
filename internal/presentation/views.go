package presentation

import (
	"strconv"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// StaffRow is one line of the roster table.
type StaffRow struct {
	StaffCode      string   `json:"staff_code"`
	Initials       string   `json:"initials"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	RoleTitle      string   `json:"role_title"`
	Venue          string   `json:"venue"`
	AccessLevel    string   `json:"access_level"`
	EmploymentType string   `json:"employment_type"`
	Status         string   `json:"status"`
	Severity       Severity `json:"severity"`
}

// Option is an entry of a filter dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RateLine is one pay rate in the detail view.
type RateLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StaffDetail is the read-only "view staff" model.
type StaffDetail struct {
	StaffRow
	Phone        string     `json:"phone"`
	StartDate    string     `json:"start_date"`
	DefaultHours string     `json:"default_hours"`
	Rates        []RateLine `json:"rates"`
	BankAccount  string     `json:"bank_account_name"`
	BankBSB      string     `json:"bank_bsb"`
	BankNumber   string     `json:"bank_account_number"`
}

// VenueNames indexes venue names by code.
func VenueNames(venues []domain.VenueSummary) map[string]string {
	names := make(map[string]string, len(venues))
	for _, v := range venues {
		names[v.VenueCode] = v.VenueName
	}
	return names
}

// Row builds the table row for rec.
func Row(rec domain.StaffRecord, venueNames map[string]string) StaffRow {
	return StaffRow{
		StaffCode:      rec.StaffCode,
		Initials:       Initials(rec.FirstName, rec.LastName),
		Name:           FullName(rec),
		Email:          rec.Email,
		RoleTitle:      orDash(rec.RoleTitle),
		Venue:          venueLabel(rec.VenueCode, venueNames),
		AccessLevel:    FormatAccessLevel(rec.AccessLevel),
		EmploymentType: FormatEmploymentType(rec.EmploymentType),
		Status:         FormatStatus(rec.EmploymentStatus),
		Severity:       StatusSeverity(rec.EmploymentStatus),
	}
}

// StaffRows builds table rows in the order given.
func StaffRows(records []domain.StaffRecord, venues []domain.VenueSummary) []StaffRow {
	names := VenueNames(venues)
	rows := make([]StaffRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row(rec, names))
	}
	return rows
}

// Detail builds the view modal for rec.
func Detail(rec domain.StaffRecord, venues []domain.VenueSummary) StaffDetail {
	return StaffDetail{
		StaffRow:     Row(rec, VenueNames(venues)),
		Phone:        orDash(rec.PhoneNumber),
		StartDate:    orDash(rec.StartDate),
		DefaultHours: strconv.FormatFloat(rec.DefaultHours, 'f', -1, 64),
		Rates: []RateLine{
			{Label: "Weekday", Value: FormatRate(rec.WeekdayRate)},
			{Label: "Saturday", Value: FormatRate(rec.SaturdayRate)},
			{Label: "Sunday", Value: FormatRate(rec.SundayRate)},
			{Label: "Public Holiday", Value: FormatRate(rec.PublicHolidayRate)},
			{Label: "Overtime", Value: FormatRate(rec.OvertimeRate)},
		},
		BankAccount: orDash(rec.BankAccountName),
		BankBSB:     orDash(rec.BankBSB),
		BankNumber:  orDash(rec.BankAccountNumber),
	}
}

// VenueOptions builds the venue filter dropdown, led by "All Venues".
func VenueOptions(venues []domain.VenueSummary) []Option {
	opts := make([]Option, 0, len(venues)+1)
	opts = append(opts, Option{Value: domain.FilterAll, Label: "All Venues"})
	for _, v := range venues {
		opts = append(opts, Option{Value: v.VenueCode, Label: v.VenueName})
	}
	return opts
}

// StatusOptions builds the status filter dropdown, led by "All Statuses".
func StatusOptions() []Option {
	opts := []Option{{Value: domain.FilterAll, Label: "All Statuses"}}
	for _, s := range domain.EmploymentStatuses {
		opts = append(opts, Option{Value: string(s), Label: FormatStatus(s)})
	}
	return opts
}

func venueLabel(code *string, names map[string]string) string {
	if code == nil || *code == "" {
		return unassignedVenue
	}
	if name, ok := names[*code]; ok {
		return name
	}
	return *code
}
