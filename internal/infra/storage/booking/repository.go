package booking

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

// pgUniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const pgUniqueViolation = "23505"

// bookingColumns колонки таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"reference_code",
	"terminal_id",
	"slot_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"was_auto_validated",
	"carrier_id",
	"truck_id",
	"container_numbers",
	"status_reason",
	"confirmed_at",
	"rejected_at",
	"cancelled_at",
	"consumed_at",
	"expired_at",
	"created_at",
	"updated_at",
}

// transitionTimestampColumns колонка временной метки для каждого целевого статуса
var transitionTimestampColumns = map[domain.BookingStatus]string{
	domain.StatusConfirmed: "confirmed_at",
	domain.StatusRejected:  "rejected_at",
	domain.StatusCancelled: "cancelled_at",
	domain.StatusConsumed:  "consumed_at",
	domain.StatusExpired:   "expired_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается только внутри сериализуемой транзакции создания брони:
// резервация ёмкости, решение об автоподтверждении и вставка бронирования
// должны зафиксироваться или откатиться как единое целое
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"reference_code",
			"terminal_id",
			"slot_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"was_auto_validated",
			"carrier_id",
			"truck_id",
			"container_numbers",
			"status_reason",
			"confirmed_at",
		).
		Values(
			booking.ReferenceCode,
			booking.TerminalID,
			booking.SlotID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.WasAutoValidated,
			booking.CarrierID,
			booking.TruckID,
			pq.Array(booking.ContainerNumbers),
			booking.StatusReason,
			booking.ConfirmedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - reference_code=%s: %v", ErrDuplicateReference, booking.ReferenceCode, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции блокирует строку (FOR UPDATE), чтобы переход статуса
// применялся к актуальному состоянию
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByReferenceCode получает бронирование по уникальному коду
func (r *Repository) GetByReferenceCode(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"reference_code": code}, "GetByReferenceCode")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	return booking, nil
}

// UpdateStatusFrom условно переводит бронирование в статус to
// UPDATE применяется только если текущий статус входит в from - это атомарная
// защита от устаревших переходов: второй конкурирующий reject/cancel не затронет
// ни одной строки и вернет ErrStaleStatus без побочных эффектов
func (r *Repository) UpdateStatusFrom(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStrings := make([]string, len(from))
	for i, s := range from {
		fromStrings[i] = string(s)
	}

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStrings})

	if reason != nil {
		updateBuilder = updateBuilder.Set("status_reason", *reason)
	}

	if tsColumn, ok := transitionTimestampColumns[to]; ok {
		updateBuilder = updateBuilder.Set(tsColumn, squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusFrom - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusFrom - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusFrom - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStaleStatus
	}

	return nil
}

// CountAutoValidatedBySlot подсчитывает автоподтвержденные бронирования слота
// в статусах, занимающих бюджет автоподтверждения (pending, confirmed, consumed)
// Вызывается внутри транзакции резервации: строка слота уже заблокирована,
// поэтому подсчет не гонится с конкурирующими создателями броней того же слота
func (r *Repository) CountAutoValidatedBySlot(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	liveStatuses := make([]string, len(domain.LiveAutoValidatedStatuses))
	for i, s := range domain.LiveAutoValidatedStatuses {
		liveStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"slot_id":            slotID,
			"was_auto_validated": true,
			"status":             liveStatuses,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountAutoValidatedBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountAutoValidatedBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ListByCarrier получает бронирования перевозчика, опционально фильтруя по статусу
func (r *Repository) ListByCarrier(ctx context.Context, carrierID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"carrier_id": carrierID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCarrier - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCarrier - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows, "ListByCarrier")
}

// ListByTerminalWithFilter получает бронирования терминала с гибкой фильтрацией
// по периоду, времени слота, статусу и перевозчику
func (r *Repository) ListByTerminalWithFilter(ctx context.Context, filter domain.TerminalBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"terminal_id": filter.TerminalID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}
	if filter.StartTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"start_time": *filter.StartTime})
	}
	if filter.CarrierID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"carrier_id": *filter.CarrierID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeFinal {
		finalStatusStrings := make([]string, len(domain.FinalStatuses))
		for i, s := range domain.FinalStatuses {
			finalStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": finalStatusStrings})
	}

	// Для конкретной даты сортируем по времени слота, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC, created_at ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminalWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminalWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows, "ListByTerminalWithFilter")
}

// ListExpiryCandidates получает бронирования, чьи слоты уже закончились,
// а статус все еще удерживает ёмкость (pending/confirmed)
// Используется внешним sweep-планировщиком для применения перехода expired
func (r *Repository) ListExpiryCandidates(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	holding := make([]string, len(domain.CapacityHoldingStatuses))
	for i, s := range domain.CapacityHoldingStatuses {
		holding[i] = string(s)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nowTime := now.Format(domain.TimeFormat)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": holding}).
		Where(squirrel.Or{
			squirrel.Lt{"booking_date": today},
			squirrel.And{
				squirrel.Eq{"booking_date": today},
				squirrel.Lt{"end_time": nowTime},
			},
		}).
		OrderBy("booking_date ASC, end_time ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiryCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiryCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows, "ListExpiryCandidates")
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows, method string) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return bookings, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row *sql.Row) (*domain.Booking, error) {
	return scanBookingRow(row)
}

func scanBookingRow(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var containers pq.StringArray
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ReferenceCode,
		&booking.TerminalID,
		&booking.SlotID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.WasAutoValidated,
		&booking.CarrierID,
		&booking.TruckID,
		&containers,
		&booking.StatusReason,
		&booking.ConfirmedAt,
		&booking.RejectedAt,
		&booking.CancelledAt,
		&booking.ConsumedAt,
		&booking.ExpiredAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.ContainerNumbers = containers
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// isUniqueViolation возвращает true при нарушении уникального индекса
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
