package expire_bookings

// defaultBatchLimit размер пачки за один проход sweep по умолчанию
const defaultBatchLimit = 100

// maxBatchLimit верхняя граница размера пачки
const maxBatchLimit = 1000

// Request модель запроса на проход sweep по просроченным бронированиям
type Request struct {
	Limit uint64 // Максимум кандидатов за проход (0 = дефолт)
}

// Response итог одного прохода sweep
type Response struct {
	Scanned int `json:"scanned"` // Кандидатов найдено
	Expired int `json:"expired"` // Переведено в expired
	Skipped int `json:"skipped"` // Проиграли гонку конкурирующему переходу
	Failed  int `json:"failed"`  // Ошибки применения перехода
}
