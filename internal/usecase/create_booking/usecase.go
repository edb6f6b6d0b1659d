package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
	fleetClient "github.com/m04kA/TAS-BookingService/internal/integrations/fleetservice"
	terminalClient "github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/internal/service/capacity"
	"github.com/m04kA/TAS-BookingService/pkg/metrics"
	"github.com/m04kA/TAS-BookingService/pkg/refcode"
)

// UseCase use case для создания бронирования
// Резервация ёмкости, решение об автоподтверждении и вставка бронирования
// выполняются в одной сериализуемой транзакции: частично созданных броней
// и утекших резерваций не бывает
type UseCase struct {
	bookingRepo    BookingRepository
	ledger         CapacityLedger
	validator      AutoValidator
	terminalClient TerminalServiceClient
	fleetClient    FleetServiceClient
	authClient     AuthServiceClient
	txManager      TransactionManager
	auditor        AuditRecorder
	cache          SnapshotInvalidator
	timeProvider   TimeProvider
	metrics        *metrics.Metrics
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledger CapacityLedger,
	validator AutoValidator,
	terminalClient TerminalServiceClient,
	fleetClient FleetServiceClient,
	authClient AuthServiceClient,
	txManager TransactionManager,
	auditor AuditRecorder,
	cache SnapshotInvalidator,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		ledger:         ledger,
		validator:      validator,
		terminalClient: terminalClient,
		fleetClient:    fleetClient,
		authClient:     authClient,
		txManager:      txManager,
		auditor:        auditor,
		cache:          cache,
		timeProvider:   &RealTimeProvider{},
		metrics:        m,
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
// Нехватка ёмкости - это отказ создания (ErrSlotFull), а не rejected-бронь:
// rejected означает решение оператора, а не проигранную гонку за место
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: actor=%d, carrier=%d, terminal=%d, truck=%d, date=%s, time=%s",
		req.ActorID, req.CarrierID, req.TerminalID, req.TruckID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 2. Проверяем право субъекта создавать бронирования на терминале
	allowed, err := uc.authClient.CanCreateBooking(ctx, req.ActorID, req.TerminalID)
	if err != nil {
		uc.logger.Error("CreateBooking: permission check failed for actor=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: permission check: %v", ErrInternal, err)
	}
	if !allowed {
		uc.logger.Warn("CreateBooking: actor=%d denied create on terminal=%d", req.ActorID, req.TerminalID)
		uc.recordAudit(ctx, req.ActorID, "", audit.OutcomeDenied, "")
		return nil, ErrAccessDenied
	}

	// 3. Получаем конфигурацию терминала
	terminal, err := uc.terminalClient.GetTerminal(ctx, req.TerminalID)
	if err != nil {
		if errors.Is(err, terminalClient.ErrTerminalNotFound) {
			uc.logger.Warn("CreateBooking: terminal id=%d not found", req.TerminalID)
			return nil, ErrTerminalNotFound
		}
		uc.logger.Error("CreateBooking: failed to get terminal id=%d: %v", req.TerminalID, err)
		return nil, fmt.Errorf("%w: failed to get terminal: %v", ErrInternal, err)
	}

	if !terminal.IsActive {
		uc.logger.Warn("CreateBooking: terminal id=%d is inactive", req.TerminalID)
		return nil, ErrTerminalInactive
	}

	// 4. Проверяем, что время начала попадает в сетку слотов терминала
	endTime, err := validateSlotTime(terminal.ScheduleForDate(req.Date), req.StartTime, terminal.SlotDurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot time validation failed: %v", err)
		return nil, err
	}

	// 5. Проверяем грузовик перевозчика
	truck, err := uc.fleetClient.GetTruck(ctx, req.CarrierID, req.TruckID)
	if err != nil {
		if errors.Is(err, fleetClient.ErrTruckNotFound) {
			uc.logger.Warn("CreateBooking: truck id=%d not found for carrier=%d", req.TruckID, req.CarrierID)
			return nil, ErrTruckNotFound
		}
		uc.logger.Error("CreateBooking: failed to get truck id=%d: %v", req.TruckID, err)
		return nil, fmt.Errorf("%w: failed to get truck: %v", ErrInternal, err)
	}

	if !truck.IsActive {
		uc.logger.Warn("CreateBooking: truck id=%d is inactive", req.TruckID)
		return nil, ErrTruckInactive
	}

	// 6. Проверяем принадлежность контейнеров перевозчику
	if len(req.ContainerNumbers) > 0 {
		if _, err := uc.fleetClient.GetContainers(ctx, req.CarrierID, req.ContainerNumbers); err != nil {
			if errors.Is(err, fleetClient.ErrContainerNotFound) {
				uc.logger.Warn("CreateBooking: containers %v not found for carrier=%d", req.ContainerNumbers, req.CarrierID)
				return nil, ErrContainerNotFound
			}
			uc.logger.Error("CreateBooking: failed to get containers: %v", err)
			return nil, fmt.Errorf("%w: failed to get containers: %v", ErrInternal, err)
		}
	}

	var result *domain.Booking

	// 7. Резервируем ёмкость и создаем бронь в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Резервируем единицу ёмкости, материализуя слот при необходимости
		slot, err := uc.ledger.Reserve(txCtx, terminal, req.Date, req.StartTime, endTime)
		if err != nil {
			switch {
			case errors.Is(err, capacity.ErrSlotFull):
				uc.logger.Warn("CreateBooking: slot full for terminal=%d date=%s time=%s",
					req.TerminalID, req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotFull
			case errors.Is(err, capacity.ErrSlotUnavailable):
				uc.logger.Warn("CreateBooking: slot unavailable for terminal=%d date=%s time=%s",
					req.TerminalID, req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotUnavailable
			default:
				uc.logger.Error("CreateBooking: failed to reserve capacity: %v", err)
				return fmt.Errorf("%w: failed to reserve capacity: %v", ErrInternal, err)
			}
		}

		// 7.2. Решаем, может ли бронь миновать ручную проверку
		// Строго после Reserve: строка слота уже заблокирована транзакцией
		autoValidated, err := uc.validator.Decide(txCtx, slot, terminal.DefaultAutoValidationThreshold)
		if err != nil {
			uc.logger.Error("CreateBooking: auto-validation decision failed: %v", err)
			return fmt.Errorf("%w: auto-validation decision: %v", ErrInternal, err)
		}

		status := domain.StatusPending
		var confirmedAt *time.Time
		if autoValidated {
			status = domain.StatusConfirmed
			confirmedAt = &now
		}

		booking := &domain.Booking{
			ReferenceCode:    refcode.Generate(terminal.Code, req.Date),
			TerminalID:       req.TerminalID,
			SlotID:           slot.ID,
			BookingDate:      req.Date,
			StartTime:        req.StartTime,
			EndTime:          endTime,
			Status:           status,
			WasAutoValidated: autoValidated,
			CarrierID:        req.CarrierID,
			TruckID:          req.TruckID,
			ContainerNumbers: req.ContainerNumbers,
			ConfirmedAt:      confirmedAt,
		}

		// 7.3. Сохраняем бронирование
		// Откат транзакции откатывает и резервацию ёмкости
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotFull) && uc.metrics != nil {
			uc.metrics.SlotFullTotal.WithLabelValues(strconv.FormatInt(req.TerminalID, 10)).Inc()
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d code=%s status=%s auto=%t",
		result.ID, result.ReferenceCode, result.Status, result.WasAutoValidated)

	if uc.metrics != nil {
		uc.metrics.BookingsCreatedTotal.WithLabelValues(strconv.FormatBool(result.WasAutoValidated)).Inc()
	}

	uc.recordAudit(ctx, req.ActorID, result.ReferenceCode, audit.OutcomeSuccess, string(result.Status))
	uc.cache.Invalidate(ctx, req.TerminalID, req.Date.Format(domain.DateFormat))

	return &Response{
		ID:               result.ID,
		ReferenceCode:    result.ReferenceCode,
		TerminalID:       result.TerminalID,
		SlotID:           result.SlotID,
		BookingDate:      result.BookingDate,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		Status:           string(result.Status),
		WasAutoValidated: result.WasAutoValidated,
		CarrierID:        result.CarrierID,
		TruckID:          result.TruckID,
		ContainerNumbers: result.ContainerNumbers,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}

// recordAudit публикует событие аудита создания брони
func (uc *UseCase) recordAudit(ctx context.Context, actorID int64, resourceID, outcome, detail string) {
	uc.auditor.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionBookingCreate,
		ResourceID: resourceID,
		Outcome:    outcome,
		Detail:     detail,
	})
}
