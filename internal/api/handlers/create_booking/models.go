package create_booking

import (
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	createBooking "github.com/m04kA/TAS-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CarrierID        int64    `json:"carrierId"`
	TerminalID       int64    `json:"terminalId"`
	TruckID          int64    `json:"truckId"`
	ContainerNumbers []string `json:"containerNumbers,omitempty"`
	BookingDate      string   `json:"bookingDate"` // "2025-10-15"
	StartTime        string   `json:"startTime"`   // "10:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               int64    `json:"id"`
	ReferenceCode    string   `json:"referenceCode"`
	TerminalID       int64    `json:"terminalId"`
	SlotID           int64    `json:"slotId"`
	BookingDate      string   `json:"bookingDate"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	Status           string   `json:"status"`
	WasAutoValidated bool     `json:"wasAutoValidated"`
	CarrierID        int64    `json:"carrierId"`
	TruckID          int64    `json:"truckId"`
	ContainerNumbers []string `json:"containerNumbers"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actorID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ActorID:          actorID,
		CarrierID:        r.CarrierID,
		TerminalID:       r.TerminalID,
		TruckID:          r.TruckID,
		ContainerNumbers: r.ContainerNumbers,
		Date:             bookingDate,
		StartTime:        startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	containers := resp.ContainerNumbers
	if containers == nil {
		containers = []string{}
	}

	return &BookingResponse{
		ID:               resp.ID,
		ReferenceCode:    resp.ReferenceCode,
		TerminalID:       resp.TerminalID,
		SlotID:           resp.SlotID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		EndTime:          resp.EndTime.String(),
		Status:           resp.Status,
		WasAutoValidated: resp.WasAutoValidated,
		CarrierID:        resp.CarrierID,
		TruckID:          resp.TruckID,
		ContainerNumbers: containers,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
