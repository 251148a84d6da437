package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/auth"
	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/repository"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	kioskPinDigits        = 4
)

// StaffService manages the staff members and venues of a business.
type StaffService struct {
	staff      repository.StaffRepository
	venues     repository.VenueRepository
	bcryptCost int
	logger     *zap.Logger
	newPin     func() (string, error)
}

// StaffDependencies encapsulates repositories required for staff management.
type StaffDependencies struct {
	StaffRepo repository.StaffRepository
	VenueRepo repository.VenueRepository
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies, logger *zap.Logger) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		staff:      deps.StaffRepo,
		venues:     deps.VenueRepo,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
		newPin:     generateKioskPin,
	}
}

func requireScope(actor domain.AuthContext) error {
	if !actor.Scoped() {
		return apperrors.NewContextError("business code header is required")
	}
	if !actor.CanAdminister() {
		return apperrors.NewForbidden("manager access required")
	}
	return nil
}

// ListVenues returns the venues of the actor's business.
func (s *StaffService) ListVenues(ctx context.Context, actor domain.AuthContext, businessCode string) ([]domain.VenueSummary, error) {
	if err := requireScope(actor); err != nil {
		return nil, err
	}
	businessCode = strings.TrimSpace(businessCode)
	if businessCode == "" {
		businessCode = actor.BusinessCode
	}
	if businessCode != actor.BusinessCode {
		return nil, apperrors.NewForbidden("venues of another business cannot be listed")
	}
	venues, err := s.venues.List(ctx, businessCode)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return venues, nil
}

// ListStaff returns the staff of the actor's business matching filter.
func (s *StaffService) ListStaff(ctx context.Context, actor domain.AuthContext, filter domain.FilterSelection) ([]domain.StaffRecord, error) {
	if err := requireScope(actor); err != nil {
		return nil, err
	}
	repoFilter := repository.StaffFilter{BusinessCode: actor.BusinessCode}
	if venue := filter.VenueCode(); venue != "" {
		repoFilter.VenueCode = &venue
	}
	if status := filter.StatusValue(); status != "" {
		repoFilter.Status = &status
	}
	members, err := s.staff.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	records := make([]domain.StaffRecord, 0, len(members))
	for i := range members {
		records = append(records, publicRecord(members[i]))
	}
	return records, nil
}

// Get fetches one staff member.
func (s *StaffService) Get(ctx context.Context, actor domain.AuthContext, staffCode string) (*domain.StaffRecord, error) {
	if err := requireScope(actor); err != nil {
		return nil, err
	}
	member, err := s.staff.GetByCode(ctx, actor.BusinessCode, staffCode)
	if err != nil {
		return nil, mapStaffError(err)
	}
	rec := publicRecord(*member)
	return &rec, nil
}

// Create stores a new staff member with a generated kiosk PIN. The PIN is
// returned once, in the created record.
func (s *StaffService) Create(ctx context.Context, actor domain.AuthContext, req domain.StaffCreateRequest) (*domain.StaffRecord, error) {
	if err := requireScope(actor); err != nil {
		return nil, err
	}
	rec := req.StaffRecord
	rec.BusinessCode = actor.BusinessCode
	normalize(&rec)
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	pin, err := s.newPin()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	rec.KioskPin = pin

	member := &domain.StaffMember{StaffRecord: rec}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		member.PasswordHash = &hash
	}

	if err := s.staff.Create(ctx, member); err != nil {
		return nil, mapStaffError(err)
	}
	s.logger.Info("staff member created",
		zap.String("business_code", rec.BusinessCode),
		zap.String("staff_code", rec.StaffCode),
		zap.String("actor_level", string(actor.AccessLevel)))
	return &member.StaffRecord, nil
}

// Update replaces the editable fields of staffCode. Password and kiosk PIN
// are only changed when supplied.
func (s *StaffService) Update(ctx context.Context, actor domain.AuthContext, staffCode string, req domain.StaffUpdateRequest) (*domain.StaffRecord, error) {
	if err := requireScope(actor); err != nil {
		return nil, err
	}
	member, err := s.staff.GetByCode(ctx, actor.BusinessCode, staffCode)
	if err != nil {
		return nil, mapStaffError(err)
	}

	req.Apply(&member.StaffRecord)
	normalize(&member.StaffRecord)
	if err := validateRecord(member.StaffRecord); err != nil {
		return nil, err
	}

	member.PasswordHash = nil
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		member.PasswordHash = &hash
	}
	member.KioskPin = ""
	if req.KioskPin != nil && *req.KioskPin != "" {
		if !validKioskPin(*req.KioskPin) {
			return nil, apperrors.NewValidationError("Kiosk PIN must be 4 digits", map[string]any{"field": "kiosk_pin"})
		}
		member.KioskPin = *req.KioskPin
	}

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, mapStaffError(err)
	}
	rec := publicRecord(*member)
	return &rec, nil
}

// Delete removes staffCode.
func (s *StaffService) Delete(ctx context.Context, actor domain.AuthContext, staffCode string) error {
	if err := requireScope(actor); err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, actor.BusinessCode, staffCode); err != nil {
		return mapStaffError(err)
	}
	s.logger.Info("staff member deleted",
		zap.String("business_code", actor.BusinessCode),
		zap.String("staff_code", staffCode))
	return nil
}

// publicRecord strips credentials from a stored member.
func publicRecord(member domain.StaffMember) domain.StaffRecord {
	rec := member.StaffRecord
	rec.KioskPin = ""
	return rec
}

func normalize(rec *domain.StaffRecord) {
	rec.StaffCode = strings.TrimSpace(rec.StaffCode)
	rec.FirstName = strings.TrimSpace(rec.FirstName)
	rec.LastName = strings.TrimSpace(rec.LastName)
	rec.Email = strings.TrimSpace(rec.Email)
	if rec.AccessLevel == "" {
		rec.AccessLevel = domain.AccessLevelEmployee
	}
	if rec.EmploymentType == "" {
		rec.EmploymentType = domain.EmploymentFullTime
	}
	if rec.EmploymentStatus == "" {
		rec.EmploymentStatus = domain.StatusActive
	}
	if rec.DefaultHours <= 0 {
		rec.DefaultHours = domain.DefaultHours
	}
}

func validateRecord(rec domain.StaffRecord) error {
	missing := []string{}
	if rec.StaffCode == "" {
		missing = append(missing, "staff_code")
	}
	if rec.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if rec.LastName == "" {
		missing = append(missing, "last_name")
	}
	if rec.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("Missing required fields", map[string]any{"fields": missing})
	}
	if !rec.AccessLevel.Valid() {
		return apperrors.NewValidationError("Invalid access level", map[string]any{"access_level": rec.AccessLevel})
	}
	if !rec.EmploymentStatus.Valid() {
		return apperrors.NewValidationError("Invalid employment status", map[string]any{"employment_status": rec.EmploymentStatus})
	}
	switch rec.EmploymentType {
	case domain.EmploymentFullTime, domain.EmploymentPartTime, domain.EmploymentCasual, domain.EmploymentContract:
	default:
		return apperrors.NewValidationError("Invalid employment type", map[string]any{"employment_type": rec.EmploymentType})
	}
	for name, v := range map[string]float64{
		"weekday_rate":        rec.WeekdayRate,
		"saturday_rate":       rec.SaturdayRate,
		"sunday_rate":         rec.SundayRate,
		"public_holiday_rate": rec.PublicHolidayRate,
		"overtime_rate":       rec.OvertimeRate,
	} {
		if v < 0 {
			return apperrors.NewValidationError("Rates cannot be negative", map[string]any{"field": name})
		}
	}
	return nil
}

func mapStaffError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("Staff member", nil)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewConflict("A staff member with this code or email already exists", map[string]any{"constraint": pgErr.ConstraintName})
		case pgForeignKeyViolation:
			return apperrors.NewValidationError("Unknown venue", map[string]any{"constraint": pgErr.ConstraintName})
		}
	}
	return apperrors.MapError(err)
}

func generateKioskPin() (string, error) {
	limit := big.NewInt(10000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", kioskPinDigits, n.Int64()), nil
}

func validKioskPin(pin string) bool {
	if len(pin) != kioskPinDigits {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
