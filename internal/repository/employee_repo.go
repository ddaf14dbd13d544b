package repository

import (
	"context"

	"go-asset-ledger/internal/model"

	"gorm.io/gorm"
)

// EmployeeChanges names the fields Update may touch. Nil pointers are left alone.
type EmployeeChanges struct {
	Name          *string
	DivisionID    *uint
	ClearDivision bool
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, empID string) (*model.Employee, error)
	FindAll(ctx context.Context) ([]model.Employee, error)
	FindByDivision(ctx context.Context, divisionID uint) ([]model.Employee, error)
	Update(ctx context.Context, empID string, changes EmployeeChanges) error
	DetachDivision(ctx context.Context, divisionID uint) (int64, error)
	Delete(ctx context.Context, empID string) (bool, error)
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db}
}

// Create inserts the employee with a zero item count; the ledger owns the counter from then on.
func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	taken, err := exists(r.db.WithContext(ctx), &model.Employee{}, "emp_id = ?", employee.EmpID)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateKeyError{Entity: "employee", Key: employee.EmpID}
	}
	employee.ItemCount = 0
	return translate(r.db.WithContext(ctx).Create(employee).Error, "employee", employee.EmpID)
}

func (r *employeeRepo) FindByID(ctx context.Context, empID string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.WithContext(ctx).First(&employee, "emp_id = ?", empID).Error; err != nil {
		return nil, translate(err, "employee", empID)
	}
	return &employee, nil
}

func (r *employeeRepo) FindAll(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) FindByDivision(ctx context.Context, divisionID uint) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Where("division_id = ?", divisionID).Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, empID string, changes EmployeeChanges) error {
	fields := map[string]interface{}{}
	if changes.Name != nil {
		fields["name"] = *changes.Name
	}
	switch {
	case changes.ClearDivision:
		fields["division_id"] = nil
	case changes.DivisionID != nil:
		fields["division_id"] = *changes.DivisionID
	}

	if len(fields) == 0 {
		_, err := r.FindByID(ctx, empID)
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Employee{}).Where("emp_id = ?", empID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("employee", empID)
	}
	return nil
}

// DetachDivision clears division_id on every employee of the division.
func (r *employeeRepo) DetachDivision(ctx context.Context, divisionID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Employee{}).
		Where("division_id = ?", divisionID).
		Update("division_id", nil)
	return res.RowsAffected, res.Error
}

// Delete removes the employee row only. Callers holding assignments must go through the ledger.
func (r *employeeRepo) Delete(ctx context.Context, empID string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Employee{}, "emp_id = ?", empID)
	return res.RowsAffected > 0, res.Error
}
