package service

import (
	"context"
	"strings"
	"time"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/ledger"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/pkg/validator"

	"gorm.io/gorm"
)

type CreateEmployeeRequest struct {
	EmpID      string `json:"emp_id" validate:"required,notblank,max=50"`
	Name       string `json:"name" validate:"required,notblank,max=255"`
	DivisionID *uint  `json:"division_id"`
}

// UpdateEmployeeRequest changes only the fields that are set.
type UpdateEmployeeRequest struct {
	Name          *string `json:"name" validate:"omitempty,notblank,max=255"`
	DivisionID    *uint   `json:"division_id"`
	ClearDivision bool    `json:"clear_division"`
}

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest, actor *uint) (*model.Employee, error)
	Get(ctx context.Context, empID string) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	Update(ctx context.Context, empID string, req UpdateEmployeeRequest, actor *uint) (*model.Employee, error)
	Delete(ctx context.Context, empID string, actor *uint) (bool, error)
}

type employeeService struct {
	db     *gorm.DB
	audit  *audit.Logger
	ledger *ledger.Ledger
	now    func() time.Time
}

func NewEmployeeService(db *gorm.DB, auditLog *audit.Logger, l *ledger.Ledger) EmployeeService {
	return &employeeService{db: db, audit: auditLog, ledger: l, now: time.Now}
}

func (s *employeeService) Create(ctx context.Context, req CreateEmployeeRequest, actor *uint) (*model.Employee, error) {
	req.EmpID = clean(req.EmpID)
	req.Name = clean(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	employee := &model.Employee{
		EmpID:      req.EmpID,
		Name:       req.Name,
		DivisionID: req.DivisionID,
		DateJoined: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.DivisionID != nil {
			if _, err := repository.NewDivisionRepo(tx).FindByID(ctx, *req.DivisionID); err != nil {
				return err
			}
		}
		if err := repository.NewEmployeeRepo(tx).Create(ctx, employee); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionCreateEmployee, actor, "created employee %s (%s)", employee.EmpID, employee.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Get(ctx context.Context, empID string) (*model.Employee, error) {
	return repository.NewEmployeeRepo(s.db).FindByID(ctx, empID)
}

func (s *employeeService) List(ctx context.Context) ([]model.Employee, error) {
	return repository.NewEmployeeRepo(s.db).FindAll(ctx)
}

func (s *employeeService) Update(ctx context.Context, empID string, req UpdateEmployeeRequest, actor *uint) (*model.Employee, error) {
	req.Name = cleanPtr(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	var updated *model.Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.DivisionID != nil && !req.ClearDivision {
			if _, err := repository.NewDivisionRepo(tx).FindByID(ctx, *req.DivisionID); err != nil {
				return err
			}
		}
		repo := repository.NewEmployeeRepo(tx)
		if err := repo.Update(ctx, empID, repository.EmployeeChanges{
			Name:          req.Name,
			DivisionID:    req.DivisionID,
			ClearDivision: req.ClearDivision,
		}); err != nil {
			return err
		}

		var changed []string
		if req.Name != nil {
			changed = append(changed, "name="+*req.Name)
		}
		if req.ClearDivision {
			changed = append(changed, "division=none")
		} else if req.DivisionID != nil {
			changed = append(changed, "division="+uintString(*req.DivisionID))
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionUpdateEmployee, actor, "updated employee %s: %s", empID, strings.Join(changed, ", "))

		var err error
		updated, err = repo.FindByID(ctx, empID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete goes through the ledger: the employee's units are released with them.
func (s *employeeService) Delete(ctx context.Context, empID string, actor *uint) (bool, error) {
	return s.ledger.DeleteEmployee(ctx, empID, actor)
}
