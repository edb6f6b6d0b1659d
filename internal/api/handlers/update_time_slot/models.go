package update_time_slot

import (
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	updateTimeSlot "github.com/m04kA/TAS-BookingService/internal/usecase/update_time_slot"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// UpdateTimeSlotRequest HTTP request model
type UpdateTimeSlotRequest struct {
	Date        string `json:"date"`      // "2025-10-15"
	StartTime   string `json:"startTime"` // "10:00"
	MaxCapacity int    `json:"maxCapacity"`
	IsActive    bool   `json:"isActive"`
	Threshold   *int   `json:"autoValidationThreshold,omitempty"`
}

// TimeSlotResponse HTTP response model
type TimeSlotResponse struct {
	SlotID          int64  `json:"slotId"`
	TerminalID      int64  `json:"terminalId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	MaxCapacity     int    `json:"maxCapacity"`
	CurrentBookings int    `json:"currentBookings"`
	IsActive        bool   `json:"isActive"`
	Threshold       *int   `json:"autoValidationThreshold,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateTimeSlotRequest) ToUseCaseRequest(actorID, terminalID int64) (*updateTimeSlot.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &updateTimeSlot.Request{
		ActorID:     actorID,
		TerminalID:  terminalID,
		Date:        date,
		StartTime:   startTime,
		MaxCapacity: r.MaxCapacity,
		IsActive:    r.IsActive,
		Threshold:   r.Threshold,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateTimeSlot.Response) *TimeSlotResponse {
	return &TimeSlotResponse{
		SlotID:          resp.SlotID,
		TerminalID:      resp.TerminalID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		MaxCapacity:     resp.MaxCapacity,
		CurrentBookings: resp.CurrentBookings,
		IsActive:        resp.IsActive,
		Threshold:       resp.Threshold,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
