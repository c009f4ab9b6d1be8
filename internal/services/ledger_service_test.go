package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fareledger/internal/core"
	"fareledger/internal/storage"
)

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	svc := NewLedgerService(repo, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

// Without an AMQP client the service still persists; export is picked up
// later by the worker's periodic sweep.
func TestAppendWithoutAMQP(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	entry := core.NewExpense(core.Money{Cents: 1500}, core.CategoryGas, "")
	require.NoError(t, svc.Append(ctx, entry))

	entries, err := svc.List(ctx, core.Expense)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestAppendPropagatesStorageError(t *testing.T) {
	svc := newTestService(t)

	bad := core.LedgerEntry{Kind: core.Revenue, Amount: core.Money{Cents: 0}}
	assert.Error(t, svc.Append(context.Background(), bad))
}

func TestSumRangeDelegates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, core.NewRevenue(core.Money{Cents: 3000}, "")))
	require.NoError(t, svc.Append(ctx, core.NewExpense(core.Money{Cents: 1000}, core.CategoryTolls, "")))

	from, to := core.DayRange(time.Now())
	revenue, err := svc.SumRange(ctx, core.Revenue, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), revenue.Cents)
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := &LedgerService{}
	assert.NoError(t, svc.Close())
}
