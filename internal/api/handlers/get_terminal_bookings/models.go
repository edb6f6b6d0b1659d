package get_terminal_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

// parseQuery собирает фильтр бронирований терминала из query-параметров
func parseQuery(terminalID int64, query url.Values) (*models.GetTerminalBookingsRequest, error) {
	req := &models.GetTerminalBookingsRequest{
		TerminalID: terminalID,
	}

	if v := query.Get("startDate"); v != "" {
		startDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("parse startDate: %w", err)
		}
		req.StartDate = &startDate
	}

	if v := query.Get("endDate"); v != "" {
		endDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("parse endDate: %w", err)
		}
		req.EndDate = &endDate
	}

	if v := query.Get("startTime"); v != "" {
		req.StartTime = &v
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	if v := query.Get("carrierId"); v != "" {
		carrierID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse carrierId: %w", err)
		}
		req.CarrierID = &carrierID
	}

	if v := query.Get("includeFinal"); v != "" {
		includeFinal, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse includeFinal: %w", err)
		}
		req.IncludeFinal = includeFinal
	}

	return req, nil
}
