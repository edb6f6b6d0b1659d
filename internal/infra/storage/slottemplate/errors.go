package slottemplate

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон не найден
	ErrTemplateNotFound = errors.New("slottemplate.repository: template not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slottemplate.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slottemplate.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slottemplate.repository: failed to scan row")
)
