package refcode

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// codeSuffixLength количество символов UUID в хвосте кода
const codeSuffixLength = 8

// Generate генерирует уникальный код бронирования с префиксом терминала
// Формат: <PREFIX>-<YYYYMMDD>-<8 hex символов>, например "PKT-20251015-a3f9c1d2"
// Уникальность хвоста обеспечивается UUID v4, уникальность кода целиком -
// уникальным индексом в БД
func Generate(terminalPrefix string, date time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:codeSuffixLength]
	return fmt.Sprintf("%s-%s-%s", normalizePrefix(terminalPrefix), date.Format("20060102"), suffix)
}

// normalizePrefix приводит префикс терминала к верхнему регистру без пробелов
func normalizePrefix(prefix string) string {
	p := strings.ToUpper(strings.TrimSpace(prefix))
	if p == "" {
		return "TRM"
	}
	return p
}
