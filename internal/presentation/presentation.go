// Package presentation maps staff records into display-ready view models.
// Everything here is pure and safe to call with unknown enum values.
package presentation

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// Severity is the badge colour used for a status.
type Severity string

const (
	SeveritySuccess   Severity = "success"
	SeverityWarning   Severity = "warning"
	SeverityDanger    Severity = "danger"
	SeveritySecondary Severity = "secondary"
)

const unassignedVenue = "Unassigned"

var employmentTypeLabels = map[domain.EmploymentType]string{
	domain.EmploymentFullTime: "Full Time",
	domain.EmploymentPartTime: "Part Time",
	domain.EmploymentCasual:   "Casual",
	domain.EmploymentContract: "Contract",
}

var accessLevelLabels = map[domain.AccessLevel]string{
	domain.AccessLevelEmployee:    "Employee",
	domain.AccessLevelManager:     "Manager",
	domain.AccessLevelSystemAdmin: "System Admin",
}

// Initials returns up to two uppercase letters taken from the first rune of each name.
func Initials(first, last string) string {
	var b strings.Builder
	for _, name := range []string{first, last} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(name)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// FormatEmploymentType returns the label for t; unknown values pass through.
func FormatEmploymentType(t domain.EmploymentType) string {
	if label, ok := employmentTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// FormatAccessLevel returns the label for a; unknown values pass through.
func FormatAccessLevel(a domain.AccessLevel) string {
	if label, ok := accessLevelLabels[a]; ok {
		return label
	}
	return string(a)
}

// FormatStatus capitalises a status for display.
func FormatStatus(s domain.EmploymentStatus) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(string(s))
	return string(unicode.ToUpper(r)) + string(s)[size:]
}

// StatusSeverity maps a status to a badge severity. Unknown statuses are secondary.
func StatusSeverity(s domain.EmploymentStatus) Severity {
	switch s {
	case domain.StatusActive:
		return SeveritySuccess
	case domain.StatusInactive:
		return SeverityWarning
	case domain.StatusTerminated:
		return SeverityDanger
	default:
		return SeveritySecondary
	}
}

// FullName joins first, middle and last names, skipping empty parts.
func FullName(rec domain.StaffRecord) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{rec.FirstName, deref(rec.MiddleName), rec.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// FormatRate renders an hourly rate as currency.
func FormatRate(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}
