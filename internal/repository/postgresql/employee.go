package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, line_user_id, employee_code, name, display_name, profile_image_url,
	position, department, phone, email, salary, status, rejection_reason,
	approved_by, approved_at, hire_date, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.LineUserID, &e.EmployeeCode, &e.Name, &e.DisplayName, &e.ProfileImageURL,
		&e.Position, &e.Department, &e.Phone, &e.Email, &e.Salary, &e.Status, &e.RejectionReason,
		&e.ApprovedBy, &e.ApprovedAt, &e.HireDate, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) getOne(ctx context.Context, where string, arg interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	e, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByLineUserID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByLineUserID(ctx context.Context, lineUserID string) (employee.Employee, error) {
	return r.getOne(ctx, "line_user_id = $1", lineUserID)
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate id: %w", err)
	}
	newEmployee.ID = id.String()
	if newEmployee.Status == "" {
		newEmployee.Status = employee.StatusPending
	}

	query := `
		INSERT INTO employees (
			id, line_user_id, employee_code, name, display_name, profile_image_url, status
		) VALUES (
			$1, $2,
			COALESCE(NULLIF($3, ''), 'EMP' || LPAD(nextval('employee_code_seq')::text, 5, '0')),
			$4, $5, $6, $7
		)
		RETURNING employee_code, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.LineUserID,
		newEmployee.EmployeeCode,
		newEmployee.Name,
		newEmployee.DisplayName,
		newEmployee.ProfileImageURL,
		newEmployee.Status,
	).Scan(&newEmployee.EmployeeCode, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "employee_code") {
				return employee.Employee{}, employee.ErrEmployeeCodeExists
			}
			return employee.Employee{}, employee.ErrLineUserAlreadyExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR employee_code ILIKE $%d OR display_name ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("SELECT %s FROM employees %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		employeeColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	employees, err := r.queryEmployees(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// ListByIDs implements employee.EmployeeRepository.
func (r *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)
	return r.queryEmployees(ctx, q, "SELECT "+employeeColumns+" FROM employees WHERE id = ANY($1::uuid[]) ORDER BY employee_code", ids)
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return r.queryEmployees(ctx, q, "SELECT "+employeeColumns+" FROM employees WHERE status = $1 ORDER BY employee_code", employee.StatusActive)
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepository) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var sets []string
	var args []interface{}
	argIdx := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Position != nil {
		add("position", *req.Position)
	}
	if req.Salary != nil {
		add("salary", *req.Salary)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if len(sets) == 0 {
		return employee.Employee{}, employee.ErrNoFieldsToUpdate
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), argIdx, employeeColumns)
	args = append(args, req.ID)

	e, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return e, nil
}

// Approve implements employee.EmployeeRepository.
func (r *employeeRepository) Approve(ctx context.Context, req employee.ApproveEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			status = 'active',
			position = COALESCE($2, position),
			department = COALESCE($3, department),
			salary = COALESCE($4, salary),
			approved_by = $5,
			approved_at = NOW(),
			hire_date = COALESCE(hire_date, CURRENT_DATE),
			rejection_reason = NULL,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + employeeColumns

	e, err := scanEmployee(q.QueryRow(ctx, query, req.ID, req.Position, req.Department, req.Salary, req.ApprovedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, r.notPendingOrMissing(ctx, req.ID)
		}
		return employee.Employee{}, fmt.Errorf("failed to approve employee: %w", err)
	}
	return e, nil
}

// Reject implements employee.EmployeeRepository.
func (r *employeeRepository) Reject(ctx context.Context, req employee.RejectEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			status = 'inactive',
			rejection_reason = $2,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + employeeColumns

	e, err := scanEmployee(q.QueryRow(ctx, query, req.ID, strings.TrimSpace(req.Reason)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, r.notPendingOrMissing(ctx, req.ID)
		}
		return employee.Employee{}, fmt.Errorf("failed to reject employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) notPendingOrMissing(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return employee.ErrEmployeeNotPending
}

func (r *employeeRepository) queryEmployees(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]employee.Employee, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

type benefitsRepository struct {
	db *database.DB
}

func NewBenefitsRepository(db *database.DB) employee.BenefitsRepository {
	return &benefitsRepository{db: db}
}

// GetOrCreate implements employee.BenefitsRepository.
func (r *benefitsRepository) GetOrCreate(ctx context.Context, employeeID string, year int) (employee.Benefits, error) {
	q := GetQuerier(ctx, r.db)
	d := employee.DefaultBenefits(employeeID, year)

	query := `
		INSERT INTO employee_benefits (employee_id, year, vacation_days_total, sick_days_total)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, year) DO UPDATE SET employee_id = EXCLUDED.employee_id
		RETURNING employee_id, year, vacation_days_total, vacation_days_used,
			sick_days_total, sick_days_used, social_security_number, bonus_amount, updated_at
	`

	var b employee.Benefits
	err := q.QueryRow(ctx, query, employeeID, year, d.VacationDaysTotal, d.SickDaysTotal).Scan(
		&b.EmployeeID, &b.Year, &b.VacationDaysTotal, &b.VacationDaysUsed,
		&b.SickDaysTotal, &b.SickDaysUsed, &b.SocialSecurityNumber, &b.BonusAmount, &b.UpdatedAt,
	)
	if err != nil {
		return employee.Benefits{}, fmt.Errorf("failed to get benefits: %w", err)
	}
	return b, nil
}

// AddUsage implements employee.BenefitsRepository.
func (r *benefitsRepository) AddUsage(ctx context.Context, employeeID string, year int, kind employee.BenefitKind, days int) error {
	if _, err := r.GetOrCreate(ctx, employeeID, year); err != nil {
		return err
	}

	column := "vacation_days_used"
	if kind == employee.BenefitSick {
		column = "sick_days_used"
	}

	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE employee_benefits SET %[1]s = %[1]s + $3, updated_at = NOW()
		WHERE employee_id = $1 AND year = $2
	`, column)
	if _, err := q.Exec(ctx, query, employeeID, year, days); err != nil {
		return fmt.Errorf("failed to add %s usage: %w", kind, err)
	}
	return nil
}

type adminRepository struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) employee.AdminRepository {
	return &adminRepository{db: db}
}

// GetByUsername implements employee.AdminRepository.
func (r *adminRepository) GetByUsername(ctx context.Context, username string) (employee.Admin, error) {
	q := GetQuerier(ctx, r.db)

	var a employee.Admin
	err := q.QueryRow(ctx, `
		SELECT id, username, password_hash, full_name, is_active, last_login_at, created_at
		FROM hr_admins
		WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FullName, &a.IsActive, &a.LastLoginAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Admin{}, employee.ErrAdminNotFound
		}
		return employee.Admin{}, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

// TouchLastLogin implements employee.AdminRepository.
func (r *adminRepository) TouchLastLogin(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, "UPDATE hr_admins SET last_login_at = NOW() WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
