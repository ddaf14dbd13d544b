package service

import (
	"context"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"

	"gorm.io/gorm"
)

// DivisionDetails is a division with its head counts and item histogram.
type DivisionDetails struct {
	Division      model.Division         `json:"division"`
	EmployeeCount int64                  `json:"employee_count"`
	ItemCount     int64                  `json:"item_count"`
	Items         []repository.ItemTally `json:"items"`
}

// SearchService is the read side of the ledger. It never writes audit entries.
type SearchService interface {
	SearchEmployees(ctx context.Context, query, division string) ([]repository.EmployeeRow, error)
	SearchItems(ctx context.Context, query string) ([]model.Item, error)
	SearchDivisions(ctx context.Context, query string) ([]repository.DivisionRow, error)
	SearchByUniqueKey(ctx context.Context, query string) ([]repository.UnitRow, error)
	GetDivisionDetails(ctx context.Context, id uint) (*DivisionDetails, error)
	ListAssignments(ctx context.Context, empID string) ([]repository.UnitRow, error)
	ListTransfers(ctx context.Context, filter repository.TransferFilter) ([]model.TransferHistory, error)
	RecentAudit(ctx context.Context, limit int, actionType string) ([]model.AuditLog, error)
}

type searchService struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewSearchService(db *gorm.DB, auditLog *audit.Logger) SearchService {
	return &searchService{db: db, audit: auditLog}
}

func (s *searchService) SearchEmployees(ctx context.Context, query, division string) ([]repository.EmployeeRow, error) {
	return repository.NewSearchRepo(s.db).SearchEmployees(ctx, clean(query), clean(division))
}

func (s *searchService) SearchItems(ctx context.Context, query string) ([]model.Item, error) {
	return repository.NewSearchRepo(s.db).SearchItems(ctx, clean(query))
}

func (s *searchService) SearchDivisions(ctx context.Context, query string) ([]repository.DivisionRow, error) {
	return repository.NewSearchRepo(s.db).SearchDivisions(ctx, clean(query))
}

func (s *searchService) SearchByUniqueKey(ctx context.Context, query string) ([]repository.UnitRow, error) {
	return repository.NewSearchRepo(s.db).SearchByUniqueKey(ctx, clean(query))
}

func (s *searchService) GetDivisionDetails(ctx context.Context, id uint) (*DivisionDetails, error) {
	division, err := repository.NewDivisionRepo(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	search := repository.NewSearchRepo(s.db)
	counts, err := search.DivisionCounts(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := search.ItemHistogram(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DivisionDetails{
		Division:      *division,
		EmployeeCount: counts.EmployeeCount,
		ItemCount:     counts.ItemCount,
		Items:         items,
	}, nil
}

// ListAssignments returns the units an employee holds with their attribute maps.
func (s *searchService) ListAssignments(ctx context.Context, empID string) ([]repository.UnitRow, error) {
	if _, err := repository.NewEmployeeRepo(s.db).FindByID(ctx, empID); err != nil {
		return nil, err
	}
	units, err := repository.NewSearchRepo(s.db).HeldUnits(ctx, empID)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return units, nil
	}

	ids := make([]uint, len(units))
	for i, u := range units {
		ids[i] = u.AssignmentID
	}
	attrs, err := repository.NewAttributeRepo(s.db).FindByAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range units {
		units[i].Attributes = attrs[units[i].AssignmentID]
	}
	return units, nil
}

func (s *searchService) ListTransfers(ctx context.Context, filter repository.TransferFilter) ([]model.TransferHistory, error) {
	return repository.NewTransferRepo(s.db).Find(ctx, filter)
}

func (s *searchService) RecentAudit(ctx context.Context, limit int, actionType string) ([]model.AuditLog, error) {
	return s.audit.Recent(ctx, limit, clean(actionType))
}
