// Package form maps the flat add/edit staff form onto structured requests.
package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// Fields is the flat form payload as submitted by the browser.
type Fields struct {
	StaffCode         string `json:"staff_code" form:"staff_code"`
	VenueCode         string `json:"venue_code" form:"venue_code"`
	FirstName         string `json:"first_name" form:"first_name"`
	MiddleName        string `json:"middle_name" form:"middle_name"`
	LastName          string `json:"last_name" form:"last_name"`
	Email             string `json:"email" form:"email"`
	PhoneNumber       string `json:"phone_number" form:"phone_number"`
	Password          string `json:"password" form:"password"`
	AccessLevel       string `json:"access_level" form:"access_level"`
	RoleTitle         string `json:"role_title" form:"role_title"`
	EmploymentType    string `json:"employment_type" form:"employment_type"`
	EmploymentStatus  string `json:"employment_status" form:"employment_status"`
	StartDate         string `json:"start_date" form:"start_date"`
	WeekdayRate       string `json:"weekday_rate" form:"weekday_rate"`
	SaturdayRate      string `json:"saturday_rate" form:"saturday_rate"`
	SundayRate        string `json:"sunday_rate" form:"sunday_rate"`
	PublicHolidayRate string `json:"public_holiday_rate" form:"public_holiday_rate"`
	OvertimeRate      string `json:"overtime_rate" form:"overtime_rate"`
	DefaultHours      string `json:"default_hours" form:"default_hours"`
	BankAccountName   string `json:"bank_account_name" form:"bank_account_name"`
	BankBSB           string `json:"bank_bsb" form:"bank_bsb"`
	BankAccountNumber string `json:"bank_account_number" form:"bank_account_number"`
	KioskPin          string `json:"kiosk_pin" form:"kiosk_pin"`
}

// ToCreatePayload builds the create request. The kiosk PIN is never sent on create.
func ToCreatePayload(f Fields) domain.StaffCreateRequest {
	return domain.StaffCreateRequest{
		StaffRecord: domain.StaffRecord{
			StaffCode:         strings.TrimSpace(f.StaffCode),
			VenueCode:         optional(f.VenueCode),
			FirstName:         strings.TrimSpace(f.FirstName),
			MiddleName:        optional(f.MiddleName),
			LastName:          strings.TrimSpace(f.LastName),
			Email:             strings.TrimSpace(f.Email),
			PhoneNumber:       optional(f.PhoneNumber),
			AccessLevel:       accessLevel(f.AccessLevel),
			RoleTitle:         optional(f.RoleTitle),
			EmploymentType:    domain.EmploymentType(strings.TrimSpace(f.EmploymentType)),
			EmploymentStatus:  status(f.EmploymentStatus),
			StartDate:         optional(f.StartDate),
			WeekdayRate:       rate(f.WeekdayRate),
			SaturdayRate:      rate(f.SaturdayRate),
			SundayRate:        rate(f.SundayRate),
			PublicHolidayRate: rate(f.PublicHolidayRate),
			OvertimeRate:      rate(f.OvertimeRate),
			DefaultHours:      hours(f.DefaultHours),
			BankAccountName:   optional(f.BankAccountName),
			BankBSB:           optional(f.BankBSB),
			BankAccountNumber: optional(f.BankAccountNumber),
		},
		Password: f.Password,
	}
}

// ToUpdatePayload builds the update request. Password and kiosk PIN are only
// included when the user typed something.
func ToUpdatePayload(f Fields) domain.StaffUpdateRequest {
	req := domain.StaffUpdateRequest{
		VenueCode:         optional(f.VenueCode),
		FirstName:         strings.TrimSpace(f.FirstName),
		MiddleName:        optional(f.MiddleName),
		LastName:          strings.TrimSpace(f.LastName),
		Email:             strings.TrimSpace(f.Email),
		PhoneNumber:       optional(f.PhoneNumber),
		AccessLevel:       accessLevel(f.AccessLevel),
		RoleTitle:         optional(f.RoleTitle),
		EmploymentType:    domain.EmploymentType(strings.TrimSpace(f.EmploymentType)),
		EmploymentStatus:  status(f.EmploymentStatus),
		StartDate:         optional(f.StartDate),
		WeekdayRate:       rate(f.WeekdayRate),
		SaturdayRate:      rate(f.SaturdayRate),
		SundayRate:        rate(f.SundayRate),
		PublicHolidayRate: rate(f.PublicHolidayRate),
		OvertimeRate:      rate(f.OvertimeRate),
		DefaultHours:      hours(f.DefaultHours),
		BankAccountName:   optional(f.BankAccountName),
		BankBSB:           optional(f.BankBSB),
		BankAccountNumber: optional(f.BankAccountNumber),
	}
	if f.Password != "" {
		pw := f.Password
		req.Password = &pw
	}
	req.KioskPin = optional(f.KioskPin)
	return req
}

// FromRecord populates the edit form from a stored record. Password is never filled.
func FromRecord(rec domain.StaffRecord) Fields {
	return Fields{
		StaffCode:         rec.StaffCode,
		VenueCode:         value(rec.VenueCode),
		FirstName:         rec.FirstName,
		MiddleName:        value(rec.MiddleName),
		LastName:          rec.LastName,
		Email:             rec.Email,
		PhoneNumber:       value(rec.PhoneNumber),
		AccessLevel:       string(rec.AccessLevel),
		RoleTitle:         value(rec.RoleTitle),
		EmploymentType:    string(rec.EmploymentType),
		EmploymentStatus:  string(rec.EmploymentStatus),
		StartDate:         value(rec.StartDate),
		WeekdayRate:       number(rec.WeekdayRate),
		SaturdayRate:      number(rec.SaturdayRate),
		SundayRate:        number(rec.SundayRate),
		PublicHolidayRate: number(rec.PublicHolidayRate),
		OvertimeRate:      number(rec.OvertimeRate),
		DefaultHours:      number(rec.DefaultHours),
		BankAccountName:   value(rec.BankAccountName),
		BankBSB:           value(rec.BankBSB),
		BankAccountNumber: value(rec.BankAccountNumber),
		KioskPin:          rec.KioskPin,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func rate(s string) float64 {
	return parseNumber(s, 0)
}

func hours(s string) float64 {
	return parseNumber(s, domain.DefaultHours)
}

// parseNumber never fails the submission: blanks, garbage and negatives fall back.
func parseNumber(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func accessLevel(s string) domain.AccessLevel {
	level := domain.AccessLevel(strings.TrimSpace(s))
	if level == "" {
		return domain.AccessLevelEmployee
	}
	return level
}

func status(s string) domain.EmploymentStatus {
	st := domain.EmploymentStatus(strings.TrimSpace(s))
	if st == "" {
		return domain.StatusActive
	}
	return st
}
