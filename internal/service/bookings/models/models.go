package models

import (
	"errors"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// TransitionRequest запрос на перевод бронирования в другой статус
type TransitionRequest struct {
	ActorID int64   `json:"actorId"`
	Reason  *string `json:"reason,omitempty"`
}

// GetCarrierBookingsRequest запрос на получение бронирований перевозчика
type GetCarrierBookingsRequest struct {
	CarrierID int64   `json:"carrierId"`
	Status    *string `json:"status,omitempty"`
}

// GetTerminalBookingsRequest запрос на получение бронирований терминала
type GetTerminalBookingsRequest struct {
	TerminalID   int64      `json:"terminalId"`
	StartDate    *time.Time `json:"startDate,omitempty"`    // Начало периода (опционально)
	EndDate      *time.Time `json:"endDate,omitempty"`      // Конец периода (опционально)
	StartTime    *string    `json:"startTime,omitempty"`    // Время начала слота (опционально)
	Status       *string    `json:"status,omitempty"`       // Фильтр по статусу (опционально)
	CarrierID    *int64     `json:"carrierId,omitempty"`    // Фильтр по перевозчику (опционально)
	IncludeFinal bool       `json:"includeFinal,omitempty"` // Включить бронирования в финальных статусах
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTerminalBookingsRequest) ToDomainFilter() (domain.TerminalBookingsFilter, error) {
	filter := domain.TerminalBookingsFilter{
		TerminalID:   r.TerminalID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		CarrierID:    r.CarrierID,
		IncludeFinal: r.IncludeFinal,
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return filter, err
		}
		filter.StartTime = &startTime
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64  `json:"id"`
	ReferenceCode string `json:"referenceCode"`

	TerminalID  int64  `json:"terminalId"`
	SlotID      int64  `json:"slotId"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:00"

	Status           string `json:"status"`
	WasAutoValidated bool   `json:"wasAutoValidated"`

	CarrierID        int64    `json:"carrierId"`
	TruckID          int64    `json:"truckId"`
	ContainerNumbers []string `json:"containerNumbers"`

	StatusReason *string `json:"statusReason,omitempty"`

	ConfirmedAt *string `json:"confirmedAt,omitempty"` // ISO 8601 format
	RejectedAt  *string `json:"rejectedAt,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"`
	ConsumedAt  *string `json:"consumedAt,omitempty"`
	ExpiredAt   *string `json:"expiredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		ReferenceCode:    b.ReferenceCode,
		TerminalID:       b.TerminalID,
		SlotID:           b.SlotID,
		BookingDate:      b.BookingDate.Format(domain.DateFormat),
		StartTime:        b.StartTime.String(),
		EndTime:          b.EndTime.String(),
		Status:           string(b.Status),
		WasAutoValidated: b.WasAutoValidated,
		CarrierID:        b.CarrierID,
		TruckID:          b.TruckID,
		ContainerNumbers: b.ContainerNumbers,
		StatusReason:     b.StatusReason,
		ConfirmedAt:      formatTimestamp(b.ConfirmedAt),
		RejectedAt:       formatTimestamp(b.RejectedAt),
		CancelledAt:      formatTimestamp(b.CancelledAt),
		ConsumedAt:       formatTimestamp(b.ConsumedAt),
		ExpiredAt:        formatTimestamp(b.ExpiredAt),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if resp.ContainerNumbers == nil {
		resp.ContainerNumbers = []string{}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.IsValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// formatTimestamp конвертирует опциональную временную метку в строку ISO 8601
func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
