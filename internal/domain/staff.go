package domain

import "time"

// AccessLevel enumerates authorization tiers for staff users.
type AccessLevel string

const (
	AccessLevelEmployee    AccessLevel = "employee"
	AccessLevelManager     AccessLevel = "manager"
	AccessLevelSystemAdmin AccessLevel = "system_admin"
)

// Valid reports whether the level is one of the known tiers.
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessLevelEmployee, AccessLevelManager, AccessLevelSystemAdmin:
		return true
	}
	return false
}

// EmploymentType enumerates contract kinds.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentCasual   EmploymentType = "casual"
	EmploymentContract EmploymentType = "contract"
)

// EmploymentStatus enumerates lifecycle states of a staff member.
type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusInactive   EmploymentStatus = "inactive"
	StatusTerminated EmploymentStatus = "terminated"
)

// EmploymentStatuses lists the known statuses in display order.
var EmploymentStatuses = []EmploymentStatus{StatusActive, StatusInactive, StatusTerminated}

// Valid reports whether the status is one of the known states.
func (s EmploymentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusTerminated:
		return true
	}
	return false
}

// DefaultHours is the weekly hours applied when none are given.
const DefaultHours = 38.0

// StaffRecord models one employee of a business.
type StaffRecord struct {
	StaffCode         string           `json:"staff_code"`
	BusinessCode      string           `json:"business_code"`
	VenueCode         *string          `json:"venue_code"`
	FirstName         string           `json:"first_name"`
	MiddleName        *string          `json:"middle_name"`
	LastName          string           `json:"last_name"`
	Email             string           `json:"email"`
	PhoneNumber       *string          `json:"phone_number"`
	AccessLevel       AccessLevel      `json:"access_level"`
	RoleTitle         *string          `json:"role_title"`
	EmploymentType    EmploymentType   `json:"employment_type"`
	EmploymentStatus  EmploymentStatus `json:"employment_status"`
	StartDate         *string          `json:"start_date"`
	WeekdayRate       float64          `json:"weekday_rate"`
	SaturdayRate      float64          `json:"saturday_rate"`
	SundayRate        float64          `json:"sunday_rate"`
	PublicHolidayRate float64          `json:"public_holiday_rate"`
	OvertimeRate      float64          `json:"overtime_rate"`
	DefaultHours      float64          `json:"default_hours"`
	BankAccountName   *string          `json:"bank_account_name"`
	BankBSB           *string          `json:"bank_bsb"`
	BankAccountNumber *string          `json:"bank_account_number"`
	KioskPin          string           `json:"kiosk_pin,omitempty"`
	CreatedAt         *time.Time       `json:"created_at,omitempty"`
	UpdatedAt         *time.Time       `json:"updated_at,omitempty"`
}

// StaffCreateRequest is the body of POST /staff. The server assigns the kiosk PIN.
type StaffCreateRequest struct {
	StaffRecord
	Password string `json:"password,omitempty"`
}

// StaffUpdateRequest replaces the editable fields of a staff member.
// Password and KioskPin are only sent when set; omission keeps the stored value.
type StaffUpdateRequest struct {
	VenueCode         *string          `json:"venue_code"`
	FirstName         string           `json:"first_name"`
	MiddleName        *string          `json:"middle_name"`
	LastName          string           `json:"last_name"`
	Email             string           `json:"email"`
	PhoneNumber       *string          `json:"phone_number"`
	AccessLevel       AccessLevel      `json:"access_level"`
	RoleTitle         *string          `json:"role_title"`
	EmploymentType    EmploymentType   `json:"employment_type"`
	EmploymentStatus  EmploymentStatus `json:"employment_status"`
	StartDate         *string          `json:"start_date"`
	WeekdayRate       float64          `json:"weekday_rate"`
	SaturdayRate      float64          `json:"saturday_rate"`
	SundayRate        float64          `json:"sunday_rate"`
	PublicHolidayRate float64          `json:"public_holiday_rate"`
	OvertimeRate      float64          `json:"overtime_rate"`
	DefaultHours      float64          `json:"default_hours"`
	BankAccountName   *string          `json:"bank_account_name"`
	BankBSB           *string          `json:"bank_bsb"`
	BankAccountNumber *string          `json:"bank_account_number"`
	Password          *string          `json:"password,omitempty"`
	KioskPin          *string          `json:"kiosk_pin,omitempty"`
}

// Apply copies the editable fields onto rec. Password and KioskPin are left to the caller.
func (u StaffUpdateRequest) Apply(rec *StaffRecord) {
	rec.VenueCode = u.VenueCode
	rec.FirstName = u.FirstName
	rec.MiddleName = u.MiddleName
	rec.LastName = u.LastName
	rec.Email = u.Email
	rec.PhoneNumber = u.PhoneNumber
	rec.AccessLevel = u.AccessLevel
	rec.RoleTitle = u.RoleTitle
	rec.EmploymentType = u.EmploymentType
	rec.EmploymentStatus = u.EmploymentStatus
	rec.StartDate = u.StartDate
	rec.WeekdayRate = u.WeekdayRate
	rec.SaturdayRate = u.SaturdayRate
	rec.SundayRate = u.SundayRate
	rec.PublicHolidayRate = u.PublicHolidayRate
	rec.OvertimeRate = u.OvertimeRate
	rec.DefaultHours = u.DefaultHours
	rec.BankAccountName = u.BankAccountName
	rec.BankBSB = u.BankBSB
	rec.BankAccountNumber = u.BankAccountNumber
}

// StaffMember is a StaffRecord as persisted, with its credentials.
type StaffMember struct {
	StaffRecord
	PasswordHash *string
}

// VenueSummary describes a venue of the current business.
type VenueSummary struct {
	VenueCode    string  `json:"venue_code"`
	VenueName    string  `json:"venue_name"`
	VenueAddress *string `json:"venue_address"`
}
