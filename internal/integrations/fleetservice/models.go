package fleetservice

// Truck модель грузовика из FleetService
type Truck struct {
	ID           int64  `json:"id"`
	CarrierID    int64  `json:"carrier_id"`
	LicensePlate string `json:"license_plate"`
	IsActive     bool   `json:"is_active"`
}

// Container модель контейнера из FleetService
type Container struct {
	Number    string `json:"number"` // ISO 6346, например "MSKU1234565"
	CarrierID int64  `json:"carrier_id"`
	Status    string `json:"status"` // Статус контейнера в системе перевозчика
}

// ErrorResponse модель ошибки от FleetService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
