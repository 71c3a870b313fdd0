package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	quotaRepo    leave.LeaveQuotaRepository
	settingsRepo policy.SettingsRepository
	auditRepo    audit.Repository
	clock        func() time.Time
}

// NewEmployeeService wires employee management. clock defaults to time.Now.
func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	quotaRepo leave.LeaveQuotaRepository,
	settingsRepo policy.SettingsRepository,
	auditRepo audit.Repository,
	clock func() time.Time,
) employee.EmployeeService {
	if clock == nil {
		clock = time.Now
	}
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		quotaRepo:    quotaRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		clock:        clock,
	}
}

// GetProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetProfile(ctx context.Context) (employee.EmployeeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// ListActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListActive(ctx context.Context) ([]employee.EmployeeResponse, error) {
	emps, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(emps))
	for _, e := range emps {
		resp = append(resp, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) appendAudit(ctx context.Context, actorID string, action audit.Action, detail, ipAddress string) error {
	event := audit.Event{
		ActorID:   actorID,
		Action:    action,
		Detail:    detail,
		Timestamp: s.clock(),
	}
	if ipAddress != "" {
		event.IPAddress = &ipAddress
	}
	if err := s.auditRepo.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// CreateEmployee implements employee.EmployeeService. The leave quota for
// the current year in the policy timezone is seeded in the same transaction.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var created employee.Employee
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		p, err := policy.Load(txCtx, s.settingsRepo)
		if err != nil {
			return fmt.Errorf("failed to load policy: %w", err)
		}

		created, err = s.employeeRepo.Create(txCtx, req.ToEmployee())
		if err != nil {
			return err
		}

		year := s.clock().In(p.Location()).Year()
		if _, err := leave.Ensure(txCtx, s.quotaRepo, created.ID, year, p.DefaultAnnualLeaveDays); err != nil {
			return fmt.Errorf("failed to seed leave quota: %w", err)
		}

		detail := fmt.Sprintf("Created employee %s (%s)", created.EmployeeNumber, created.Name)
		return s.appendAudit(txCtx, claims.EmployeeID, audit.ActionCreateEmployee, detail, req.IPAddress)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "actor_id", claims.EmployeeID)
	return employee.NewEmployeeResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		var changed []string
		updated, changed = req.Apply(current)
		if len(changed) == 0 {
			return nil
		}

		if err := s.employeeRepo.Update(txCtx, updated); err != nil {
			return err
		}

		detail := fmt.Sprintf("Updated employee %s: %s", updated.EmployeeNumber, strings.Join(changed, ", "))
		return s.appendAudit(txCtx, claims.EmployeeID, audit.ActionUpdateEmployee, detail, req.IPAddress)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(updated), nil
}

// DeactivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, req employee.DeactivateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if claims.EmployeeID == req.ID {
		return employee.EmployeeResponse{}, employee.ErrCannotDeactivateSelf
	}

	var emp employee.Employee
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err = s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			return employee.ErrEmployeeAlreadyInactive
		}

		if err := s.employeeRepo.SetActive(txCtx, emp.ID, false); err != nil {
			return fmt.Errorf("failed to deactivate employee: %w", err)
		}
		emp.IsActive = false

		detail := fmt.Sprintf("Deactivated employee %s (%s)", emp.EmployeeNumber, emp.Name)
		return s.appendAudit(txCtx, claims.EmployeeID, audit.ActionDeactivateEmployee, detail, req.IPAddress)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee deactivated", "employee_id", emp.ID, "actor_id", claims.EmployeeID)
	return employee.NewEmployeeResponse(emp), nil
}
