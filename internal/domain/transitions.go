package domain

// legalTransitions таблица допустимых переходов статусов бронирования
// pending и confirmed - единственные статусы, удерживающие единицу ёмкости слота;
// переходы rejected/cancelled/expired из них обязаны освобождать эту единицу
var legalTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled, StatusExpired},
	StatusConfirmed: {StatusConsumed, StatusCancelled, StatusExpired},
	// Финальные статусы: исходящих переходов нет
	StatusRejected:  {},
	StatusConsumed:  {},
	StatusCancelled: {},
	StatusExpired:   {},
}

// CanTransition возвращает true, если переход from -> to допустим
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedSourceStatuses возвращает список статусов, из которых допустим переход в to
// Используется репозиторием для условного UPDATE (WHERE status IN ...),
// защищающего от применения перехода к устаревшему состоянию
func AllowedSourceStatuses(to BookingStatus) []BookingStatus {
	sources := make([]BookingStatus, 0, 2)
	for from, targets := range legalTransitions {
		for _, t := range targets {
			if t == to {
				sources = append(sources, from)
			}
		}
	}
	return sources
}

// TransitionReleasesCapacity возвращает true, если переход from -> to
// должен освободить зарезервированную единицу ёмкости слота
// Переход confirmed -> consumed ёмкость не освобождает: бронь использована
func TransitionReleasesCapacity(from, to BookingStatus) bool {
	if !CanTransition(from, to) {
		return false
	}

	holdsBefore := from == StatusPending || from == StatusConfirmed
	holdsAfter := to == StatusPending || to == StatusConfirmed || to == StatusConsumed

	return holdsBefore && !holdsAfter
}

// ValidStatuses список всех допустимых статусов бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusRejected,
	StatusConsumed,
	StatusCancelled,
	StatusExpired,
}

// IsValidStatus возвращает true, если строка является допустимым статусом
func IsValidStatus(s BookingStatus) bool {
	for _, valid := range ValidStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
