package slottemplate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/TAS-BookingService/pkg/psqlbuilder"
)

// templateColumns колонки таблицы slot_templates в порядке сканирования
var templateColumns = []string{
	"id",
	"terminal_id",
	"day_of_week",
	"hour",
	"default_capacity",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с недельными шаблонами слотов
// Шаблоны - read-only вход для дефолтов ёмкости, бронированиями не изменяются
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByTerminalAndDay получает шаблоны терминала на день недели,
// упорядоченные по часу начала
func (r *Repository) ListByTerminalAndDay(ctx context.Context, terminalID int64, dayOfWeek int) ([]*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("slot_templates").
		Where(squirrel.Eq{"terminal_id": terminalID, "day_of_week": dayOfWeek}).
		OrderBy("hour ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminalAndDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminalAndDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTemplates(rows, "ListByTerminalAndDay")
}

// ListByTerminal получает все шаблоны терминала
func (r *Repository) ListByTerminal(ctx context.Context, terminalID int64) ([]*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("slot_templates").
		Where(squirrel.Eq{"terminal_id": terminalID}).
		OrderBy("day_of_week ASC, hour ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminal - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTerminal - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTemplates(rows, "ListByTerminal")
}

// Upsert создает или обновляет шаблон для (терминал, день недели, час)
func (r *Repository) Upsert(ctx context.Context, template *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_templates").
		Columns(
			"terminal_id",
			"day_of_week",
			"hour",
			"default_capacity",
			"is_active",
		).
		Values(
			template.TerminalID,
			template.DayOfWeek,
			template.Hour,
			template.DefaultCapacity,
			template.IsActive,
		).
		Suffix(`ON CONFLICT (terminal_id, day_of_week, hour) DO UPDATE SET
			default_capacity = EXCLUDED.default_capacity,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()`).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&template.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return template, nil
}

// Delete удаляет шаблон
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// scanTemplates сканирует результаты запроса в слайс шаблонов
func (r *Repository) scanTemplates(rows *sql.Rows, method string) ([]*domain.SlotTemplate, error) {
	templates := make([]*domain.SlotTemplate, 0)

	for rows.Next() {
		var template domain.SlotTemplate
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&template.ID,
			&template.TerminalID,
			&template.DayOfWeek,
			&template.Hour,
			&template.DefaultCapacity,
			&template.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}

		template.CreatedAt = createdAt.Time
		template.UpdatedAt = updatedAt.Time

		templates = append(templates, &template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return templates, nil
}
