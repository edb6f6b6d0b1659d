package timeslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/TAS-BookingService/pkg/psqlbuilder"
)

// slotColumns колонки таблицы time_slots в порядке сканирования
var slotColumns = []string{
	"id",
	"terminal_id",
	"slot_date",
	"start_time",
	"end_time",
	"max_capacity",
	"current_bookings",
	"is_active",
	"auto_validation_threshold",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами ёмкости терминалов
// Счетчик current_bookings изменяется только условными инкрементом/декрементом -
// прямых UPDATE счетчика за пределами этого репозитория быть не должно
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlotKey получает слот по ключу (терминал, дата, время начала)
// Внутри транзакции добавляет FOR UPDATE: строка слота блокируется до конца
// транзакции, что сериализует конкурирующие резервации одного слота
func (r *Repository) GetBySlotKey(ctx context.Context, terminalID int64, date time.Time, startTime string) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{
			"terminal_id": terminalID,
			"slot_date":   date,
			"start_time":  startTime,
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlotKey - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanSlot(executor.QueryRowContext(ctx, query, args...), "GetBySlotKey")
}

// GetByID получает слот по ID
// Внутри транзакции блокирует строку (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanSlot(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// CreateIfAbsent материализует слот, если записи для (терминал, дата, время) еще нет
// При конкурентной материализации того же слота вставка молча не применяется
// (ON CONFLICT DO NOTHING), победитель определяется уникальным индексом
func (r *Repository) CreateIfAbsent(ctx context.Context, slot *domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"terminal_id",
			"slot_date",
			"start_time",
			"end_time",
			"max_capacity",
			"current_bookings",
			"is_active",
			"auto_validation_threshold",
		).
		Values(
			slot.TerminalID,
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
			slot.MaxCapacity,
			slot.CurrentBookings,
			slot.IsActive,
			slot.AutoValidationThreshold,
		).
		Suffix("ON CONFLICT (terminal_id, slot_date, start_time) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Upsert создает или обновляет слот (административное редактирование)
// Счетчик current_bookings при обновлении не трогается
func (r *Repository) Upsert(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"terminal_id",
			"slot_date",
			"start_time",
			"end_time",
			"max_capacity",
			"current_bookings",
			"is_active",
			"auto_validation_threshold",
		).
		Values(
			slot.TerminalID,
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
			slot.MaxCapacity,
			slot.CurrentBookings,
			slot.IsActive,
			slot.AutoValidationThreshold,
		).
		Suffix(`ON CONFLICT (terminal_id, slot_date, start_time) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			max_capacity = EXCLUDED.max_capacity,
			is_active = EXCLUDED.is_active,
			auto_validation_threshold = EXCLUDED.auto_validation_threshold,
			updated_at = NOW()`).
		Suffix("RETURNING id, current_bookings, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.CurrentBookings,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// IncrementBookings условно увеличивает счетчик занятых мест слота
// Инкремент применяется только к активному слоту со свободной ёмкостью;
// иначе возвращается ErrNoCapacity. Проверка и инкремент - один атомарный UPDATE
func (r *Repository) IncrementBookings(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("current_bookings", squirrel.Expr("current_bookings + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		Where(squirrel.Expr("current_bookings < max_capacity")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementBookings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementBookings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementBookings - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNoCapacity
	}

	return nil
}

// DecrementBookings условно уменьшает счетчик занятых мест слота
// Счетчик никогда не опускается ниже нуля: при нулевом значении декремент
// не применяется и возвращается ErrAlreadyReleased
func (r *Repository) DecrementBookings(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("current_bookings", squirrel.Expr("current_bookings - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("current_bookings > 0")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementBookings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementBookings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementBookings - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAlreadyReleased
	}

	return nil
}

// ListByTerminalAndDate получает все материализованные слоты терминала на дату,
// упорядоченные по времени начала
func (r *Repository) ListByTerminalAndDate(ctx context.Context, terminalID int64, date time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"terminal_id": terminalID, "slot_date": date}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminalAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminalAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		var slot domain.TimeSlot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.TerminalID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.MaxCapacity,
			&slot.CurrentBookings,
			&slot.IsActive,
			&slot.AutoValidationThreshold,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTerminalAndDate - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTerminalAndDate - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// RecalculateForDate пересчитывает current_bookings всех слотов терминала на дату
// из авторитетного количества бронирований в статусах, удерживающих ёмкость
// Reconciliation-процедура для устранения дрейфа счетчиков, не для горячего пути
// Возвращает количество обновленных слотов
func (r *Repository) RecalculateForDate(ctx context.Context, terminalID int64, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	holding := make([]string, len(domain.CapacityHoldingStatuses))
	for i, s := range domain.CapacityHoldingStatuses {
		holding[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("time_slots").
		Set("current_bookings", squirrel.Expr(
			"(SELECT COUNT(*) FROM bookings b WHERE b.slot_id = time_slots.id AND b.status = ANY(?))",
			pq.Array(holding),
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"terminal_id": terminalID, "slot_date": date}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RecalculateForDate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: RecalculateForDate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: RecalculateForDate - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanSlot сканирует одну строку слота
func (r *Repository) scanSlot(row *sql.Row, method string) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.TerminalID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxCapacity,
		&slot.CurrentBookings,
		&slot.IsActive,
		&slot.AutoValidationThreshold,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, method, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}
