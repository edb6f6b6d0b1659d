package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
	bookingRepo "github.com/m04kA/TAS-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
	"github.com/m04kA/TAS-BookingService/pkg/metrics"
)

// transitionAuditActions действие аудита для каждого целевого статуса
var transitionAuditActions = map[domain.BookingStatus]string{
	domain.StatusConfirmed: audit.ActionBookingConfirm,
	domain.StatusRejected:  audit.ActionBookingReject,
	domain.StatusCancelled: audit.ActionBookingCancel,
	domain.StatusConsumed:  audit.ActionBookingConsume,
	domain.StatusExpired:   audit.ActionBookingExpire,
}

// Service сервис жизненного цикла бронирований
// Владеет машиной статусов: каждый переход применяется атомарно с освобождением
// ёмкости слота, если переход её освобождает
type Service struct {
	bookingRepo BookingRepository
	ledger      CapacityLedger
	authClient  AuthServiceClient
	txManager   TransactionManager
	auditor     AuditRecorder
	cache       SnapshotInvalidator
	metrics     *metrics.Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	ledger CapacityLedger,
	authClient AuthServiceClient,
	txManager TransactionManager,
	auditor AuditRecorder,
	cache SnapshotInvalidator,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		ledger:      ledger,
		authClient:  authClient,
		txManager:   txManager,
		auditor:     auditor,
		cache:       cache,
		metrics:     m,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetByReferenceCode получает бронирование по уникальному коду
func (s *Service) GetByReferenceCode(ctx context.Context, code string) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByReferenceCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByReferenceCode: booking code=%s not found", code)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByReferenceCode: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByReferenceCode - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetCarrierBookings получает историю бронирований перевозчика
// Опционально фильтрует по статусу
func (s *Service) GetCarrierBookings(ctx context.Context, req *models.GetCarrierBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCarrierBookings: fetching bookings for carrier=%d, status=%v", req.CarrierID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCarrierBookings: invalid status=%s for carrier=%d", *req.Status, req.CarrierID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.ListByCarrier(ctx, req.CarrierID, domainStatus)
	if err != nil {
		s.logger.Error("GetCarrierBookings: repository error for carrier=%d: %v", req.CarrierID, err)
		return nil, fmt.Errorf("%w: GetCarrierBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCarrierBookings: fetched %d bookings for carrier=%d", len(bookings), req.CarrierID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTerminalBookings получает бронирования терминала с гибкой фильтрацией
// по периоду, времени слота, статусу и перевозчику
//
// Примеры использования:
// - Расписание на дату: StartDate и EndDate указывают на одну дату
// - Очередь ручной проверки: Status = "pending"
// - История с финальными статусами: IncludeFinal = true
func (s *Service) GetTerminalBookings(ctx context.Context, req *models.GetTerminalBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTerminalBookings: fetching bookings for terminal=%d", req.TerminalID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTerminalBookings: invalid filter for terminal=%d: %v", req.TerminalID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByTerminalWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTerminalBookings: repository error for terminal=%d: %v", req.TerminalID, err)
		return nil, fmt.Errorf("%w: GetTerminalBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTerminalBookings: fetched %d bookings for terminal=%d", len(bookings), req.TerminalID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает pending-бронирование (ручная проверка оператором)
// Ёмкость не затрагивается: pending уже удерживает единицу
func (s *Service) Confirm(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	return s.transition(ctx, bookingID, domain.StatusConfirmed, req.ActorID, req.Reason, true)
}

// Reject отклоняет pending-бронирование с освобождением ёмкости слота
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	return s.transition(ctx, bookingID, domain.StatusRejected, req.ActorID, req.Reason, true)
}

// Cancel отменяет pending/confirmed-бронирование с освобождением ёмкости слота
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	return s.transition(ctx, bookingID, domain.StatusCancelled, req.ActorID, req.Reason, true)
}

// Consume отмечает фактическое прибытие грузовика по confirmed-бронированию
// Ёмкость не освобождается: бронь использована по назначению
func (s *Service) Consume(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	return s.transition(ctx, bookingID, domain.StatusConsumed, req.ActorID, req.Reason, true)
}

// Expire переводит просроченное бронирование в expired с освобождением ёмкости
// Вызывается sweep-планировщиком от имени системы, проверка прав не выполняется
func (s *Service) Expire(ctx context.Context, bookingID int64, reason *string) (*models.BookingResponse, error) {
	return s.transition(ctx, bookingID, domain.StatusExpired, 0, reason, false)
}

// transition применяет переход статуса бронирования
// Чтение с блокировкой строки, условный UPDATE и освобождение ёмкости выполняются
// в одной транзакции: конкурирующий переход той же брони либо ждет на блокировке,
// либо получает ErrInvalidTransition по устаревшему статусу
func (s *Service) transition(
	ctx context.Context,
	bookingID int64,
	target domain.BookingStatus,
	actorID int64,
	reason *string,
	checkPermission bool,
) (*models.BookingResponse, error) {
	s.logger.Info("transition: booking id=%d -> %s by actor=%d", bookingID, target, actorID)

	if checkPermission {
		allowed, err := s.authClient.CanTransition(ctx, actorID, bookingID, string(target))
		if err != nil {
			s.logger.Error("transition: permission check failed for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: transition - permission check: %v", ErrInternal, err)
		}
		if !allowed {
			s.logger.Warn("transition: actor=%d denied %s on booking id=%d", actorID, target, bookingID)
			s.recordAudit(ctx, actorID, target, bookingID, audit.OutcomeDenied, "")
			return nil, ErrAccessDenied
		}
	}

	var from domain.BookingStatus
	var terminalID int64
	var bookingDate string

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: transition - get booking: %v", ErrInternal, err)
		}

		from = booking.Status
		terminalID = booking.TerminalID
		bookingDate = booking.BookingDate.Format(domain.DateFormat)

		if !domain.CanTransition(booking.Status, target) {
			s.logger.Warn("transition: booking id=%d illegal transition %s -> %s",
				bookingID, booking.Status, target)
			return ErrInvalidTransition
		}

		if err := s.bookingRepo.UpdateStatusFrom(txCtx, bookingID, []domain.BookingStatus{booking.Status}, target, reason); err != nil {
			// Строка заблокирована FOR UPDATE, устаревший статус здесь означает
			// гонку вне транзакционного пути
			if errors.Is(err, bookingRepo.ErrStaleStatus) {
				s.logger.Warn("transition: booking id=%d status changed concurrently", bookingID)
				return ErrInvalidTransition
			}
			return fmt.Errorf("%w: transition - update status: %v", ErrInternal, err)
		}

		if domain.TransitionReleasesCapacity(booking.Status, target) {
			if err := s.ledger.Release(txCtx, booking.SlotID); err != nil {
				return fmt.Errorf("%w: transition - release capacity: %v", ErrInternal, err)
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		s.logger.Error("transition: booking id=%d -> %s failed: %v", bookingID, target, err)
		s.recordAudit(ctx, actorID, target, bookingID, audit.OutcomeFailed, err.Error())
		return nil, err
	}

	s.logger.Info("transition: booking id=%d %s -> %s applied", bookingID, from, target)

	if s.metrics != nil {
		s.metrics.BookingTransitionsTotal.WithLabelValues(string(from), string(target)).Inc()
	}

	s.recordAudit(ctx, actorID, target, bookingID, audit.OutcomeSuccess, "")
	s.cache.Invalidate(ctx, terminalID, bookingDate)

	updated, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("transition: booking id=%d reread failed: %v", bookingID, err)
		return nil, fmt.Errorf("%w: transition - reread booking: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(updated), nil
}

// recordAudit публикует событие аудита перехода
func (s *Service) recordAudit(ctx context.Context, actorID int64, target domain.BookingStatus, bookingID int64, outcome, detail string) {
	action, ok := transitionAuditActions[target]
	if !ok {
		return
	}

	s.auditor.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     action,
		ResourceID: strconv.FormatInt(bookingID, 10),
		Outcome:    outcome,
		Detail:     detail,
	})
}
