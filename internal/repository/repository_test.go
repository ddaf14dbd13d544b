package repository

import (
	"context"
	"testing"
	"time"

	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ALI%", likePattern("ALI"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
	assert.Equal(t, "%%", likePattern(""))
}

func TestDivisionRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewDivisionRepo(testutil.OpenDB(t))

	eng := &model.Division{Name: "Eng"}
	require.NoError(t, repo.Create(ctx, eng))

	err := repo.Create(ctx, &model.Division{Name: "Eng"})
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "division", dup.Entity)

	ops := &model.Division{Name: "Ops"}
	require.NoError(t, repo.Create(ctx, ops))
	assert.ErrorIs(t, repo.Rename(ctx, ops.ID, "Eng"), ErrDuplicateKey)
	assert.ErrorIs(t, repo.Rename(ctx, 999, "Ghost"), ErrNotFound)
	require.NoError(t, repo.Rename(ctx, ops.ID, "Operations"))

	found, err := repo.FindByName(ctx, "Operations")
	require.NoError(t, err)
	assert.Equal(t, ops.ID, found.ID)

	deleted, err := repo.Delete(ctx, ops.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, ops.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAssignmentRepo_FindHeld(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	now := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.Employee{EmpID: "E1", Name: "Alice", DateJoined: now}).Error)
	item := &model.Item{Name: "Laptop"}
	require.NoError(t, db.Create(item).Error)
	for _, key := range []string{"SN-1", "SN-2"} {
		require.NoError(t, db.Create(&model.Assignment{EmpID: "E1", ItemID: item.ID, UniqueKey: key, DateAssigned: now}).Error)
	}

	repo := NewAssignmentRepo(db)
	held, err := repo.FindHeld(ctx, "E1", item.ID, "SN-2")
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, "SN-2", held.UniqueKey)

	held, err = repo.FindHeld(ctx, "E1", item.ID, "SN-9")
	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, "SN-1", held.UniqueKey)

	held, err = repo.FindHeld(ctx, "E2", item.ID, "SN-1")
	require.NoError(t, err)
	assert.Nil(t, held)

	n, err := repo.CountByEmployee(ctx, "E1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttributeRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	now := time.Now().UTC()

	require.NoError(t, db.Create(&model.Employee{EmpID: "E1", Name: "Alice", DateJoined: now}).Error)
	item := &model.Item{Name: "Phone"}
	require.NoError(t, db.Create(item).Error)
	a := &model.Assignment{EmpID: "E1", ItemID: item.ID, UniqueKey: "IMEI-1", DateAssigned: now}
	b := &model.Assignment{EmpID: "E1", ItemID: item.ID, UniqueKey: "IMEI-2", DateAssigned: now}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)

	repo := NewAttributeRepo(db)
	require.NoError(t, repo.Create(ctx, &model.AssignmentAttribute{AssignmentID: a.ID, Name: "color", Value: "red"}))
	assert.ErrorIs(t, repo.Create(ctx, &model.AssignmentAttribute{AssignmentID: a.ID, Name: "color", Value: "blue"}), ErrDuplicateKey)
	require.NoError(t, repo.Create(ctx, &model.AssignmentAttribute{AssignmentID: b.ID, Name: "sim", Value: "dual"}))

	assert.ErrorIs(t, repo.UpdateValue(ctx, a.ID, "size", "xl"), ErrNotFound)

	byUnit, err := repo.FindByAssignments(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"color": "red"}, byUnit[a.ID])
	assert.Equal(t, map[string]string{"sim": "dual"}, byUnit[b.ID])

	moved, err := repo.Reassign(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, moved)
	rows, err := repo.FindByAssignment(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"color": "red", "sim": "dual"}, model.Attributes(rows))
}

func TestSearchRepo_EscapesWildcards(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	require.NoError(t, db.Create(&model.Item{Name: "Cable 100%"}).Error)
	require.NoError(t, db.Create(&model.Item{Name: "Cable 1000"}).Error)

	search := NewSearchRepo(db)
	items, err := search.SearchItems(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cable 100%", items[0].Name)

	items, err = search.SearchItems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestTransferRepo_Find(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepo(testutil.OpenDB(t))
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &model.TransferHistory{ItemID: 1, UniqueKey: "K1", FromEmpID: "E1", ToEmpID: "E2", TransferDate: base}))
	require.NoError(t, repo.Create(ctx, &model.TransferHistory{ItemID: 1, UniqueKey: "K1", FromEmpID: "E2", ToEmpID: "E3", TransferDate: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &model.TransferHistory{ItemID: 2, UniqueKey: "K2", FromEmpID: "E4", ToEmpID: "E5", TransferDate: base}))

	rows, err := repo.Find(ctx, TransferFilter{ItemID: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "E3", rows[0].ToEmpID)

	rows, err = repo.Find(ctx, TransferFilter{EmpID: "E2"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.Find(ctx, TransferFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSearchRepo_FoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	now := time.Now().UTC()

	hr := &model.Division{Name: "Équipe Nord"}
	require.NoError(t, db.Create(hr).Error)
	require.NoError(t, db.Create(&model.Employee{EmpID: "E1", Name: "Élise", DivisionID: &hr.ID, DateJoined: now}).Error)
	require.NoError(t, db.Create(&model.Employee{EmpID: "E2", Name: "Bob", DateJoined: now}).Error)
	dock := &model.Item{Name: "ÜBER Dock"}
	require.NoError(t, db.Create(dock).Error)
	require.NoError(t, db.Create(&model.Assignment{EmpID: "E1", ItemID: dock.ID, UniqueKey: "ÅB-1", DateAssigned: now}).Error)

	search := NewSearchRepo(db)
	for _, q := range []string{"Élise", "élise", "ÉLISE", "lis"} {
		rows, err := search.SearchEmployees(ctx, q, "")
		require.NoError(t, err)
		require.Len(t, rows, 1, q)
		assert.Equal(t, "E1", rows[0].EmpID)
	}

	for _, q := range []string{"über", "ÜBER", "Über dock"} {
		items, err := search.SearchItems(ctx, q)
		require.NoError(t, err)
		require.Len(t, items, 1, q)
		assert.Equal(t, "ÜBER Dock", items[0].Name)
	}

	divs, err := search.SearchDivisions(ctx, "équipe")
	require.NoError(t, err)
	require.Len(t, divs, 1)
	assert.EqualValues(t, 1, divs[0].ItemCount)

	units, err := search.SearchByUniqueKey(ctx, "åb-")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Élise", units[0].EmployeeName)
}
