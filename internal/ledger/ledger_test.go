package ledger_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/ledger"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/internal/telemetry"
	"go-asset-ledger/internal/testutil"
	"go-asset-ledger/pkg/validator"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	events []ledger.Event
}

func (r *recorder) Publish(ev ledger.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	ledger *ledger.Ledger
	events *recorder
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	f := &fixture{
		ctx:    context.Background(),
		db:     db,
		events: &recorder{},
		now:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.ledger = ledger.New(db, audit.NewLogger(db, nil),
		ledger.WithNotifier(f.events),
		ledger.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) division(t *testing.T, name string) uint {
	t.Helper()
	d := &model.Division{Name: name}
	require.NoError(t, repository.NewDivisionRepo(f.db).Create(f.ctx, d))
	return d.ID
}

func (f *fixture) employee(t *testing.T, empID, name string, division *uint) {
	t.Helper()
	e := &model.Employee{EmpID: empID, Name: name, DivisionID: division, DateJoined: f.now}
	require.NoError(t, repository.NewEmployeeRepo(f.db).Create(f.ctx, e))
}

func (f *fixture) item(t *testing.T, name string) uint {
	t.Helper()
	i := &model.Item{Name: name}
	require.NoError(t, repository.NewItemRepo(f.db).Create(f.ctx, i))
	return i.ID
}

func (f *fixture) count(t *testing.T, empID string) int {
	t.Helper()
	e, err := repository.NewEmployeeRepo(f.db).FindByID(f.ctx, empID)
	require.NoError(t, err)
	return e.ItemCount
}

func (f *fixture) rows(t *testing.T) int64 {
	t.Helper()
	n, err := repository.NewAssignmentRepo(f.db).Count(f.ctx)
	require.NoError(t, err)
	return n
}

func (f *fixture) audits(t *testing.T, action string) int64 {
	t.Helper()
	n, err := repository.NewAuditRepo(f.db).Count(f.ctx, action)
	require.NoError(t, err)
	return n
}

func TestScenario_AssignThenFailedTransfer(t *testing.T) {
	f := newFixture(t)
	eng := f.division(t, "Eng")
	f.employee(t, "E1", "Alice", &eng)
	laptop := f.item(t, "Laptop")

	a, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)
	assert.Equal(t, "SN1", a.UniqueKey)
	assert.True(t, f.now.Equal(a.DateAssigned))

	assert.Equal(t, 1, f.count(t, "E1"))
	assert.EqualValues(t, 1, f.rows(t))
	assert.EqualValues(t, 1, f.audits(t, audit.ActionAssignItem))

	_, err = f.ledger.Transfer(f.ctx, ledger.TransferRequest{FromEmpID: "E1", ToEmpID: "E2", ItemID: laptop, UniqueKey: "SN1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	var nf *repository.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "employee", nf.Entity)

	// Nothing moved.
	held, err := repository.NewAssignmentRepo(f.db).FindByEmployee(f.ctx, "E1")
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, a.ID, held[0].ID)
	assert.Equal(t, 1, f.count(t, "E1"))
	assert.EqualValues(t, 0, f.audits(t, audit.ActionTransferItem))
	n, err := repository.NewTransferRepo(f.db).Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, f.ledger.Verify(f.ctx))
	assert.Equal(t, []string{audit.ActionAssignItem}, f.events.types())
}

func TestAssign_MissingReferences(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	laptop := f.item(t, "Laptop")

	tests := []struct {
		name   string
		req    ledger.AssignRequest
		entity string
	}{
		{"unknown item", ledger.AssignRequest{EmpID: "E1", ItemID: laptop + 100, UniqueKey: "SN1"}, "item"},
		{"unknown employee", ledger.AssignRequest{EmpID: "E9", ItemID: laptop, UniqueKey: "SN1"}, "employee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.Assign(f.ctx, tt.req)
			var nf *repository.NotFoundError
			require.True(t, errors.As(err, &nf), "got %v", err)
			assert.Equal(t, tt.entity, nf.Entity)
		})
	}
	assert.EqualValues(t, 0, f.rows(t))
	assert.Equal(t, 0, f.count(t, "E1"))
	assert.EqualValues(t, 0, f.audits(t, ""))
}

func TestAssign_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: " ", ItemID: 1, UniqueKey: "SN"})
	assert.ErrorIs(t, err, validator.ErrValidation)
	_, err = f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", UniqueKey: "SN"})
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestValidationFailuresAreCounted(t *testing.T) {
	f := newFixture(t)
	counter := func(op string) float64 {
		return promtest.ToFloat64(telemetry.LedgerOperationsTotal.WithLabelValues(op, "invalid"))
	}
	assigns, transfers, unassigns := counter("assign"), counter("transfer"), counter("unassign")

	_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: 1})
	require.ErrorIs(t, err, validator.ErrValidation)
	_, err = f.ledger.Transfer(f.ctx, ledger.TransferRequest{FromEmpID: "E1", ItemID: 1, UniqueKey: "SN"})
	require.ErrorIs(t, err, validator.ErrValidation)
	_, err = f.ledger.Unassign(f.ctx, ledger.UnassignRequest{ItemID: 1})
	require.ErrorIs(t, err, validator.ErrValidation)

	assert.Equal(t, assigns+1, counter("assign"))
	assert.Equal(t, transfers+1, counter("transfer"))
	assert.Equal(t, unassigns+1, counter("unassign"))
}

func TestAssign_SameKeyTwiceIsAllowed(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	f.employee(t, "E2", "Bob", nil)
	laptop := f.item(t, "Laptop")

	for _, emp := range []string{"E1", "E2"} {
		_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: emp, ItemID: laptop, UniqueKey: "SN1"})
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, f.rows(t))
}

func TestAssignUnassign_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	laptop := f.item(t, "Laptop")
	monitor := f.item(t, "Monitor")

	_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: monitor, UniqueKey: "M-1"})
	require.NoError(t, err)
	before := f.count(t, "E1")

	a, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)
	require.NoError(t, repository.NewAttributeRepo(f.db).Create(f.ctx, &model.AssignmentAttribute{AssignmentID: a.ID, Name: "warranty", Value: "2027"}))

	ok, err := f.ledger.Unassign(f.ctx, ledger.UnassignRequest{EmpID: "E1", ItemID: laptop})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, before, f.count(t, "E1"))
	_, err = repository.NewAssignmentRepo(f.db).FindByID(f.ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	attrs, err := repository.NewAttributeRepo(f.db).FindByAssignment(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, attrs)
	assert.EqualValues(t, 1, f.audits(t, audit.ActionRemoveItem))
}

func TestUnassign_NoMatch(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	laptop := f.item(t, "Laptop")
	_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)

	ok, err := f.ledger.Unassign(f.ctx, ledger.UnassignRequest{EmpID: "E2", ItemID: laptop})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.ledger.Unassign(f.ctx, ledger.UnassignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN-other"})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, f.count(t, "E1"))
	assert.EqualValues(t, 0, f.audits(t, audit.ActionRemoveItem))
}

func TestTransfer_Conservation(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	f.employee(t, "E2", "Bob", nil)
	laptop := f.item(t, "Laptop")

	_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN0"})
	require.NoError(t, err)
	src, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)
	require.NoError(t, repository.NewAttributeRepo(f.db).Create(f.ctx, &model.AssignmentAttribute{AssignmentID: src.ID, Name: "warranty", Value: "2027-01-31"}))

	totalBefore := f.rows(t)
	e1, e2 := f.count(t, "E1"), f.count(t, "E2")

	f.now = f.now.Add(time.Hour)
	res, err := f.ledger.Transfer(f.ctx, ledger.TransferRequest{FromEmpID: "E1", ToEmpID: "E2", ItemID: laptop, UniqueKey: "SN1", Notes: "desk move"})
	require.NoError(t, err)

	assert.True(t, res.SourceFound)
	assert.Equal(t, e1-1, f.count(t, "E1"))
	assert.Equal(t, e2+1, f.count(t, "E2"))
	assert.Equal(t, totalBefore, f.rows(t))

	// The unit keyed SN1 moved; SN0 stayed.
	held, err := repository.NewAssignmentRepo(f.db).FindByEmployee(f.ctx, "E1")
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "SN0", held[0].UniqueKey)

	attrs, err := repository.NewAttributeRepo(f.db).FindByAssignment(f.ctx, res.Assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"warranty": "2027-01-31"}, model.Attributes(attrs))

	history, err := repository.NewTransferRepo(f.db).Find(f.ctx, repository.TransferFilter{ItemID: laptop})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "E1", history[0].FromEmpID)
	assert.Equal(t, "E2", history[0].ToEmpID)
	assert.Equal(t, "SN1", history[0].UniqueKey)
	assert.Equal(t, "desk move", history[0].Notes)
	assert.True(t, f.now.Equal(history[0].TransferDate))

	assert.EqualValues(t, 1, f.audits(t, audit.ActionTransferItem))
	assert.NoError(t, f.ledger.Verify(f.ctx))
}

func TestTransfer_WithoutSourceStillRecordsHistory(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	f.employee(t, "E2", "Bob", nil)
	laptop := f.item(t, "Laptop")

	res, err := f.ledger.Transfer(f.ctx, ledger.TransferRequest{FromEmpID: "E1", ToEmpID: "E2", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)

	assert.False(t, res.SourceFound)
	assert.Equal(t, 0, f.count(t, "E1"))
	assert.Equal(t, 1, f.count(t, "E2"))
	require.NotNil(t, res.History)
	assert.NotZero(t, res.History.ID)
	assert.NoError(t, f.ledger.Verify(f.ctx))
}

func TestTransfer_MissingItemRollsBack(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	f.employee(t, "E2", "Bob", nil)

	_, err := f.ledger.Transfer(f.ctx, ledger.TransferRequest{FromEmpID: "E1", ToEmpID: "E2", ItemID: 42, UniqueKey: "SN1"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	n, err := repository.NewTransferRepo(f.db).Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteItem_CascadesAndKeepsCounts(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	f.employee(t, "E2", "Bob", nil)
	laptop := f.item(t, "Laptop")
	phone := f.item(t, "Phone")

	for _, req := range []ledger.AssignRequest{
		{EmpID: "E1", ItemID: laptop, UniqueKey: "L1"},
		{EmpID: "E1", ItemID: laptop, UniqueKey: "L2"},
		{EmpID: "E2", ItemID: laptop, UniqueKey: "L3"},
		{EmpID: "E2", ItemID: phone, UniqueKey: "P1"},
	} {
		a, err := f.ledger.Assign(f.ctx, req)
		require.NoError(t, err)
		require.NoError(t, repository.NewAttributeRepo(f.db).Create(f.ctx, &model.AssignmentAttribute{AssignmentID: a.ID, Name: "tag", Value: req.UniqueKey}))
	}

	ok, err := f.ledger.DeleteItem(f.ctx, laptop, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 0, f.count(t, "E1"))
	assert.Equal(t, 1, f.count(t, "E2"))
	assert.EqualValues(t, 1, f.rows(t))
	var attrs int64
	require.NoError(t, f.db.Model(&model.AssignmentAttribute{}).Count(&attrs).Error)
	assert.EqualValues(t, 1, attrs)
	_, err = repository.NewItemRepo(f.db).FindByID(f.ctx, laptop)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, f.ledger.Verify(f.ctx))

	ok, err = f.ledger.DeleteItem(f.ctx, laptop, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, f.audits(t, audit.ActionDeleteItem))
}

func TestDeleteEmployee_ReleasesUnitsKeepsHistory(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	f.employee(t, "E2", "Bob", nil)
	laptop := f.item(t, "Laptop")

	_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)
	_, err = f.ledger.Transfer(f.ctx, ledger.TransferRequest{FromEmpID: "E1", ToEmpID: "E2", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)

	ok, err := f.ledger.DeleteEmployee(f.ctx, "E2", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 0, f.rows(t))

	history, err := repository.NewTransferRepo(f.db).Find(f.ctx, repository.TransferFilter{EmpID: "E2"})
	require.NoError(t, err)
	assert.Len(t, history, 1)

	ok, err = f.ledger.DeleteEmployee(f.ctx, "E2", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvariant_HoldsAcrossRandomSequence(t *testing.T) {
	f := newFixture(t)
	emps := []string{"E1", "E2", "E3", "E4"}
	for _, e := range emps {
		f.employee(t, e, "Employee "+e, nil)
	}
	items := []uint{f.item(t, "Laptop"), f.item(t, "Phone"), f.item(t, "Badge")}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 150; i++ {
		emp := emps[rng.Intn(len(emps))]
		item := items[rng.Intn(len(items))]
		key := string(rune('A'+rng.Intn(5))) + "-key"
		switch rng.Intn(3) {
		case 0:
			_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: emp, ItemID: item, UniqueKey: key})
			require.NoError(t, err)
		case 1:
			to := emps[rng.Intn(len(emps))]
			_, err := f.ledger.Transfer(f.ctx, ledger.TransferRequest{FromEmpID: emp, ToEmpID: to, ItemID: item, UniqueKey: key})
			require.NoError(t, err)
		case 2:
			_, err := f.ledger.Unassign(f.ctx, ledger.UnassignRequest{EmpID: emp, ItemID: item})
			require.NoError(t, err)
		}
		require.NoError(t, f.ledger.Verify(f.ctx), "after step %d", i)
	}

	var total int
	for _, e := range emps {
		n, err := repository.NewAssignmentRepo(f.db).CountByEmployee(f.ctx, e)
		require.NoError(t, err)
		assert.EqualValues(t, n, f.count(t, e))
		total += f.count(t, e)
	}
	assert.EqualValues(t, total, f.rows(t))
}

func TestVerifyAndReconcile(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	f.employee(t, "E2", "Bob", nil)
	laptop := f.item(t, "Laptop")
	_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN1"})
	require.NoError(t, err)

	// Simulate a write that bypassed the ledger.
	require.NoError(t, f.db.Model(&model.Employee{}).Where("emp_id = ?", "E2").UpdateColumn("item_count", 3).Error)

	err = f.ledger.Verify(f.ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInvariantViolation)
	var v *ledger.InvariantViolation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, ledger.InvariantViolation{EmpID: "E2", Stored: 3, Actual: 0}, *v)

	repaired, err := f.ledger.Reconcile(f.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, repaired, 1)
	assert.NoError(t, f.ledger.Verify(f.ctx))
	assert.Equal(t, 0, f.count(t, "E2"))
	assert.EqualValues(t, 1, f.audits(t, audit.ActionReconcileItemCount))
}

func TestLedger_SerializesConcurrentCallers(t *testing.T) {
	f := newFixture(t)
	f.employee(t, "E1", "Alice", nil)
	laptop := f.item(t, "Laptop")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.ledger.Assign(f.ctx, ledger.AssignRequest{EmpID: "E1", ItemID: laptop, UniqueKey: "SN"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, f.count(t, "E1"))
	assert.NoError(t, f.ledger.Verify(f.ctx))
}
