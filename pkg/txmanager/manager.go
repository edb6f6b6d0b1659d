package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/TAS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/TAS-BookingService/pkg/metrics"
)

// maxSerializableRetries максимальное число повторов транзакции при serialization failure
const maxSerializableRetries = 3

// pgSerializationFailure код ошибки PostgreSQL "could not serialize access"
const pgSerializationFailure = "40001"

// Значения меток счетчиков транзакций
const (
	isolationDefault      = "default"
	isolationReadOnly     = "read_only"
	isolationSerializable = "serializable"

	txStatusCommit     = "commit"
	txStatusRollback   = "rollback"
	txStatusBeginError = "begin_error"
)

var (
	// ErrBeginTx возвращается при ошибке открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке коммита транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationConflict возвращается, когда конфликт сериализации
	// не удалось разрешить повторами
	ErrSerializationConflict = errors.New("txmanager: serialization conflict, retries exhausted")
)

// TxBeginner открывает транзакцию, запросы которой попадают в метрики
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager менеджер транзакций поверх *dbmetrics.DB
// Кладет транзакцию в контекст, репозитории достают её через dbmetrics.GetExecutor
type TransactionManager struct {
	db      TxBeginner
	metrics *metrics.Metrics
}

// NewTransactionManager создает новый менеджер транзакций
// collector может быть nil, тогда счетчики транзакций не ведутся
func NewTransactionManager(db TxBeginner, collector *metrics.Metrics) *TransactionManager {
	return &TransactionManager{db: db, metrics: collector}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
// Конфликты сериализации (40001) повторяются ограниченное число раз,
// после чего возвращается ErrSerializationConflict
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxSerializableRetries; attempt++ {
		err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil {
			return nil
		}
		if !IsSerializationFailure(err) {
			return err
		}
		lastErr = err
		if attempt < maxSerializableRetries {
			m.countRetry(isolationSerializable)
		}
	}

	return fmt.Errorf("%w: %v", ErrSerializationConflict, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	isolation := isolationLabel(opts)

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		m.countTx(isolation, txStatusBeginError)
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		m.countTx(isolation, txStatusRollback)
		return err
	}

	if err := tx.Commit(); err != nil {
		m.countTx(isolation, txStatusRollback)
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	m.countTx(isolation, txStatusCommit)
	return nil
}

func (m *TransactionManager) countTx(isolation, status string) {
	if m.metrics == nil {
		return
	}
	m.metrics.TxTotal.WithLabelValues(isolation, status).Inc()
}

func (m *TransactionManager) countRetry(isolation string) {
	if m.metrics == nil {
		return
	}
	m.metrics.TxRetryTotal.WithLabelValues(isolation).Inc()
}

func isolationLabel(opts *sql.TxOptions) string {
	switch {
	case opts.ReadOnly:
		return isolationReadOnly
	case opts.Isolation == sql.LevelSerializable:
		return isolationSerializable
	default:
		return isolationDefault
	}
}

// IsSerializationFailure возвращает true, если ошибка вызвана конфликтом сериализации
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgSerializationFailure
	}
	return false
}
