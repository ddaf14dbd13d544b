package repository

import (
	"context"
	"strings"
	"time"

	"go-asset-ledger/internal/model"
	"go-asset-ledger/pkg/database"

	"gorm.io/gorm"
)

// EmployeeRow is an employee joined with its division name.
type EmployeeRow struct {
	EmpID        string    `json:"emp_id"`
	Name         string    `json:"name"`
	DivisionID   *uint     `json:"division_id"`
	DivisionName *string   `json:"division_name"`
	ItemCount    int       `json:"item_count"`
	DateJoined   time.Time `json:"date_joined"`
}

// DivisionRow carries counts computed at query time.
type DivisionRow struct {
	ID            uint   `json:"division_id"`
	Name          string `json:"name"`
	EmployeeCount int64  `json:"employee_count"`
	ItemCount     int64  `json:"item_count"`
}

// UnitRow is one held physical unit with its item and holder.
type UnitRow struct {
	AssignmentID uint              `json:"assignment_id"`
	UniqueKey    string            `json:"unique_key"`
	ItemID       uint              `json:"item_id"`
	ItemName     string            `json:"item_name"`
	EmpID        string            `json:"emp_id"`
	EmployeeName string            `json:"employee_name"`
	DateAssigned time.Time         `json:"date_assigned"`
	Notes        string            `json:"notes"`
	Attributes   map[string]string `gorm:"-" json:"attributes,omitempty"`
}

// ItemTally is one bar of a division's item histogram.
type ItemTally struct {
	ItemName string `json:"item_name"`
	Total    int64  `json:"count"`
}

// Stats is the overview shown on the dashboard.
type Stats struct {
	Divisions   int64 `json:"divisions"`
	Employees   int64 `json:"employees"`
	Items       int64 `json:"items"`
	Assignments int64 `json:"assignments"`
	Transfers   int64 `json:"transfers"`
	Unassigned  int64 `json:"employees_without_division"`
}

// SearchRepository holds the read-only projections used by the front-end.
type SearchRepository interface {
	SearchEmployees(ctx context.Context, query, division string) ([]EmployeeRow, error)
	SearchItems(ctx context.Context, query string) ([]model.Item, error)
	SearchDivisions(ctx context.Context, query string) ([]DivisionRow, error)
	SearchByUniqueKey(ctx context.Context, query string) ([]UnitRow, error)
	DivisionCounts(ctx context.Context, divisionID uint) (*DivisionRow, error)
	ItemHistogram(ctx context.Context, divisionID uint) ([]ItemTally, error)
	HeldUnits(ctx context.Context, empID string) ([]UnitRow, error)
	Stats(ctx context.Context) (*Stats, error)
}

type searchRepo struct {
	db *gorm.DB
}

func NewSearchRepo(db *gorm.DB) SearchRepository {
	return &searchRepo{db}
}

// likePattern builds a "contains" pattern for use with ESCAPE '\'.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

// contains is a case-insensitive LIKE on col; both sides go through the same fold.
func (r *searchRepo) contains(col string) string {
	return database.FoldExpr(r.db, col) + " LIKE " + database.FoldExpr(r.db, "?") + ` ESCAPE '\'`
}

const unitSelect = `a.id AS assignment_id, a.unique_key, a.item_id, i.name AS item_name,
	a.emp_id, e.name AS employee_name, a.date_assigned, a.notes`

func (r *searchRepo) SearchEmployees(ctx context.Context, query, division string) ([]EmployeeRow, error) {
	q := r.db.WithContext(ctx).Table("employees AS e").
		Select("e.emp_id, e.name, e.division_id, d.name AS division_name, e.item_count, e.date_joined").
		Joins("LEFT JOIN divisions AS d ON d.id = e.division_id")
	if query != "" {
		p := likePattern(query)
		q = q.Where("("+r.contains("e.name")+" OR "+r.contains("e.emp_id")+")", p, p)
	}
	if division != "" {
		q = q.Where("d.name = ?", division)
	}
	var rows []EmployeeRow
	err := q.Order("e.name ASC").Order("e.emp_id ASC").Scan(&rows).Error
	return rows, err
}

func (r *searchRepo) SearchItems(ctx context.Context, query string) ([]model.Item, error) {
	q := r.db.WithContext(ctx).Model(&model.Item{})
	if query != "" {
		q = q.Where(r.contains("name"), likePattern(query))
	}
	var items []model.Item
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

const divisionCountsSQL = `SELECT d.id, d.name,
	(SELECT COUNT(*) FROM employees e WHERE e.division_id = d.id) AS employee_count,
	(SELECT COUNT(*) FROM assignments a JOIN employees e ON e.emp_id = a.emp_id WHERE e.division_id = d.id) AS item_count
FROM divisions d`

func (r *searchRepo) SearchDivisions(ctx context.Context, query string) ([]DivisionRow, error) {
	var rows []DivisionRow
	err := r.db.WithContext(ctx).
		Raw(divisionCountsSQL+" WHERE "+r.contains("d.name")+" ORDER BY d.name ASC", likePattern(query)).
		Scan(&rows).Error
	return rows, err
}

func (r *searchRepo) DivisionCounts(ctx context.Context, divisionID uint) (*DivisionRow, error) {
	var rows []DivisionRow
	if err := r.db.WithContext(ctx).Raw(divisionCountsSQL+` WHERE d.id = ?`, divisionID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound("division", divisionID)
	}
	return &rows[0], nil
}

func (r *searchRepo) ItemHistogram(ctx context.Context, divisionID uint) ([]ItemTally, error) {
	var tallies []ItemTally
	err := r.db.WithContext(ctx).Raw(`SELECT i.name AS item_name, COUNT(a.id) AS total
FROM assignments a
JOIN employees e ON e.emp_id = a.emp_id
JOIN items i ON i.id = a.item_id
WHERE e.division_id = ?
GROUP BY i.name
ORDER BY total DESC, i.name ASC`, divisionID).Scan(&tallies).Error
	return tallies, err
}

func (r *searchRepo) SearchByUniqueKey(ctx context.Context, query string) ([]UnitRow, error) {
	var rows []UnitRow
	err := r.db.WithContext(ctx).Table("assignments AS a").
		Select(unitSelect).
		Joins("JOIN items AS i ON i.id = a.item_id").
		Joins("JOIN employees AS e ON e.emp_id = a.emp_id").
		Where(r.contains("a.unique_key"), likePattern(query)).
		Order("a.unique_key ASC").Order("a.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *searchRepo) HeldUnits(ctx context.Context, empID string) ([]UnitRow, error) {
	var rows []UnitRow
	err := r.db.WithContext(ctx).Table("assignments AS a").
		Select(unitSelect).
		Joins("JOIN items AS i ON i.id = a.item_id").
		Joins("JOIN employees AS e ON e.emp_id = a.emp_id").
		Where("a.emp_id = ?", empID).
		Order("a.date_assigned ASC").Order("a.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *searchRepo) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := r.db.WithContext(ctx)
	counts := []struct {
		table interface{}
		dest  *int64
	}{
		{&model.Division{}, &stats.Divisions},
		{&model.Employee{}, &stats.Employees},
		{&model.Item{}, &stats.Items},
		{&model.Assignment{}, &stats.Assignments},
		{&model.TransferHistory{}, &stats.Transfers},
	}
	for _, c := range counts {
		if err := db.Model(c.table).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Model(&model.Employee{}).Where("division_id IS NULL").Count(&stats.Unassigned).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
