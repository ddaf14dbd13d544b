package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLogger_LogDirect(t *testing.T) {
	db := testutil.OpenDB(t)
	logger := audit.NewLogger(db, nil)
	ctx := context.Background()
	uid := uint(7)

	before := time.Now().UTC().Add(-time.Second)
	logger.Log(ctx, audit.ActionCreateItem, "item Laptop", &uid)
	logger.Logf(ctx, audit.ActionCreateItem, nil, "item %s", "Monitor")

	entries, err := logger.Recent(ctx, 10, audit.ActionCreateItem)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "item Monitor", entries[0].Details)
	assert.Nil(t, entries[0].UserID)
	assert.Equal(t, "item Laptop", entries[1].Details)
	require.NotNil(t, entries[1].UserID)
	assert.Equal(t, uid, *entries[1].UserID)
	assert.True(t, entries[1].Timestamp.After(before))
}

func TestLogger_InTxFollowsTransaction(t *testing.T) {
	db := testutil.OpenDB(t)
	logger := audit.NewLogger(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		logger.InTx(tx).Log(ctx, audit.ActionCreateDivision, "committed", nil)
		return nil
	}))
	err := db.Transaction(func(tx *gorm.DB) error {
		logger.InTx(tx).Log(ctx, audit.ActionCreateDivision, "rolled back", nil)
		return errors.New("abort")
	})
	require.Error(t, err)

	entries, err := logger.Recent(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "committed", entries[0].Details)
}

func TestLogger_FailureDoesNotBlockOperation(t *testing.T) {
	db := testutil.OpenDB(t)
	logger := audit.NewLogger(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&model.AuditLog{}))

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Division{Name: "Eng"}).Error; err != nil {
			return err
		}
		logger.InTx(tx).Log(ctx, audit.ActionCreateDivision, "Eng", nil)
		return tx.Create(&model.Division{Name: "Ops"}).Error
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&model.Division{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestLogger_RecentLimits(t *testing.T) {
	db := testutil.OpenDB(t)
	logger := audit.NewLogger(db, nil)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := make([]model.AuditLog, audit.MaxRecent+5)
	for i := range rows {
		rows[i] = model.AuditLog{ActionType: audit.ActionCreateItem, Details: "bulk", Timestamp: now.Add(time.Duration(i) * time.Millisecond)}
	}
	require.NoError(t, db.CreateInBatches(rows, 100).Error)

	tests := []struct {
		limit int
		want  int
	}{
		{0, 100},
		{-3, 100},
		{150, 150},
		{audit.MaxRecent, audit.MaxRecent},
		{audit.MaxRecent * 5, audit.MaxRecent},
	}
	for _, tt := range tests {
		entries, err := logger.Recent(ctx, tt.limit, "")
		require.NoError(t, err)
		assert.Len(t, entries, tt.want, "limit %d", tt.limit)
	}
}
