package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TAS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/TAS-BookingService/pkg/metrics"
)

// Коллекторы регистрируются в default registry, поэтому один экземпляр на весь пакет
var testMetrics = metrics.New("txmanager-test")

type fakeTx struct {
	commits   int
	rollbacks int
	commitErr error
}

func (f *fakeTx) ExecContext(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.commits++
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rollbacks++
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	begins   int
}

func (f *fakeBeginner) BeginTx(_ context.Context, _ *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func serializationError() error {
	return &pq.Error{Code: pgSerializationFailure}
}

func counterValue(t *testing.T, isolation, status string) float64 {
	t.Helper()
	return testutil.ToFloat64(testMetrics.TxTotal.WithLabelValues(isolation, status))
}

func retryValue(t *testing.T, isolation string) float64 {
	t.Helper()
	return testutil.ToFloat64(testMetrics.TxRetryTotal.WithLabelValues(isolation))
}

func TestTransactionManager_Do_CommitCounted(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx}, testMetrics)

	before := counterValue(t, "default", "commit")

	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)
	assert.InDelta(t, before+1, counterValue(t, "default", "commit"), 0.001)
}

func TestTransactionManager_Do_RollbackCounted(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx}, testMetrics)

	before := counterValue(t, "default", "rollback")
	fnErr := errors.New("boom")

	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	require.ErrorIs(t, err, fnErr)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
	assert.InDelta(t, before+1, counterValue(t, "default", "rollback"), 0.001)
}

func TestTransactionManager_Do_BeginErrorCounted(t *testing.T) {
	mgr := NewTransactionManager(&fakeBeginner{beginErr: errors.New("db down")}, testMetrics)

	before := counterValue(t, "default", "begin_error")

	err := mgr.Do(context.Background(), func(ctx context.Context) error { return nil })

	require.ErrorIs(t, err, ErrBeginTx)
	assert.InDelta(t, before+1, counterValue(t, "default", "begin_error"), 0.001)
}

func TestTransactionManager_DoReadOnly_UsesReadOnlyLabel(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx}, testMetrics)

	before := counterValue(t, "read_only", "commit")

	err := mgr.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil })

	require.NoError(t, err)
	assert.InDelta(t, before+1, counterValue(t, "read_only", "commit"), 0.001)
}

func TestTransactionManager_DoSerializable_RetryThenSuccess(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx}, testMetrics)

	retriesBefore := retryValue(t, "serializable")
	commitsBefore := counterValue(t, "serializable", "commit")

	attempts := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return serializationError()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.InDelta(t, retriesBefore+1, retryValue(t, "serializable"), 0.001)
	assert.InDelta(t, commitsBefore+1, counterValue(t, "serializable", "commit"), 0.001)
}

func TestTransactionManager_DoSerializable_RetriesExhausted(t *testing.T) {
	tx := &fakeTx{}
	beginner := &fakeBeginner{tx: tx}
	mgr := NewTransactionManager(beginner, testMetrics)

	retriesBefore := retryValue(t, "serializable")

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return serializationError()
	})

	require.ErrorIs(t, err, ErrSerializationConflict)
	assert.Equal(t, maxSerializableRetries+1, beginner.begins)
	assert.InDelta(t, retriesBefore+maxSerializableRetries, retryValue(t, "serializable"), 0.001)
}

func TestTransactionManager_DoSerializable_NonRetryableError(t *testing.T) {
	tx := &fakeTx{}
	beginner := &fakeBeginner{tx: tx}
	mgr := NewTransactionManager(beginner, testMetrics)

	fnErr := errors.New("constraint violation")

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	require.ErrorIs(t, err, fnErr)
	assert.Equal(t, 1, beginner.begins)
}

func TestTransactionManager_NilMetrics(t *testing.T) {
	tx := &fakeTx{}
	mgr := NewTransactionManager(&fakeBeginner{tx: tx}, nil)

	err := mgr.Do(context.Background(), func(ctx context.Context) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
}
