package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	GetByCode(ctx context.Context, businessCode, staffCode string) (*domain.StaffMember, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error)
	Delete(ctx context.Context, businessCode, staffCode string) error
}

// StaffFilter defines query params for staff listing. Nil facets match everything.
type StaffFilter struct {
	BusinessCode string
	VenueCode    *string
	Status       *domain.EmploymentStatus
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `
        staff_code, business_code, venue_code, first_name, middle_name, last_name, email, phone_number,
        access_level, role_title, employment_type, employment_status, start_date::text,
        weekday_rate, saturday_rate, sunday_rate, public_holiday_rate, overtime_rate, default_hours,
        bank_account_name, bank_bsb, bank_account_number, password_hash, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (
            staff_code, business_code, venue_code, first_name, middle_name, last_name, email, phone_number,
            access_level, role_title, employment_type, employment_status, start_date,
            weekday_rate, saturday_rate, sunday_rate, public_holiday_rate, overtime_rate, default_hours,
            bank_account_name, bank_bsb, bank_account_number, password_hash, kiosk_pin)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,CAST($13::text AS DATE),$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
        RETURNING created_at, updated_at`

	rec := &staff.StaffRecord
	return r.pool.QueryRow(ctx, query,
		rec.StaffCode,
		rec.BusinessCode,
		rec.VenueCode,
		rec.FirstName,
		rec.MiddleName,
		rec.LastName,
		rec.Email,
		rec.PhoneNumber,
		rec.AccessLevel,
		rec.RoleTitle,
		rec.EmploymentType,
		rec.EmploymentStatus,
		rec.StartDate,
		rec.WeekdayRate,
		rec.SaturdayRate,
		rec.SundayRate,
		rec.PublicHolidayRate,
		rec.OvertimeRate,
		rec.DefaultHours,
		rec.BankAccountName,
		rec.BankBSB,
		rec.BankAccountNumber,
		staff.PasswordHash,
		rec.KioskPin,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// Update writes every editable column. A nil PasswordHash or empty KioskPin
// keeps the stored value.
func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET venue_code=$1, first_name=$2, middle_name=$3, last_name=$4, email=$5, phone_number=$6,
            access_level=$7, role_title=$8, employment_type=$9, employment_status=$10,
            start_date=CAST($11::text AS DATE), weekday_rate=$12, saturday_rate=$13, sunday_rate=$14,
            public_holiday_rate=$15, overtime_rate=$16, default_hours=$17,
            bank_account_name=$18, bank_bsb=$19, bank_account_number=$20,
            password_hash=COALESCE($21, password_hash),
            kiosk_pin=COALESCE(NULLIF($22, ''), kiosk_pin),
            updated_at=NOW()
        WHERE business_code=$23 AND staff_code=$24
        RETURNING created_at, updated_at`

	rec := &staff.StaffRecord
	err := r.pool.QueryRow(ctx, query,
		rec.VenueCode,
		rec.FirstName,
		rec.MiddleName,
		rec.LastName,
		rec.Email,
		rec.PhoneNumber,
		rec.AccessLevel,
		rec.RoleTitle,
		rec.EmploymentType,
		rec.EmploymentStatus,
		rec.StartDate,
		rec.WeekdayRate,
		rec.SaturdayRate,
		rec.SundayRate,
		rec.PublicHolidayRate,
		rec.OvertimeRate,
		rec.DefaultHours,
		rec.BankAccountName,
		rec.BankBSB,
		rec.BankAccountNumber,
		staff.PasswordHash,
		rec.KioskPin,
		rec.BusinessCode,
		rec.StaffCode,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	return err
}

func (r *staffRepository) GetByCode(ctx context.Context, businessCode, staffCode string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + `
        FROM staff_members WHERE business_code=$1 AND staff_code=$2`

	staff, err := scanStaff(r.pool.QueryRow(ctx, query, businessCode, staffCode))
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + `
        FROM staff_members`
	args := []any{filter.BusinessCode}
	clauses := []string{"business_code=$1"}

	if filter.VenueCode != nil {
		args = append(args, *filter.VenueCode)
		clauses = append(clauses, fmt.Sprintf("venue_code=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("employment_status=$%d", len(args)))
	}

	query += " WHERE " + strings.Join(clauses, " AND ")
	query += " ORDER BY last_name, first_name, staff_code"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Delete(ctx context.Context, businessCode, staffCode string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_members WHERE business_code=$1 AND staff_code=$2`, businessCode, staffCode)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	rec := &staff.StaffRecord
	if err := row.Scan(
		&rec.StaffCode,
		&rec.BusinessCode,
		&rec.VenueCode,
		&rec.FirstName,
		&rec.MiddleName,
		&rec.LastName,
		&rec.Email,
		&rec.PhoneNumber,
		&rec.AccessLevel,
		&rec.RoleTitle,
		&rec.EmploymentType,
		&rec.EmploymentStatus,
		&rec.StartDate,
		&rec.WeekdayRate,
		&rec.SaturdayRate,
		&rec.SundayRate,
		&rec.PublicHolidayRate,
		&rec.OvertimeRate,
		&rec.DefaultHours,
		&rec.BankAccountName,
		&rec.BankBSB,
		&rec.BankAccountNumber,
		&staff.PasswordHash,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
