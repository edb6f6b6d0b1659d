package autovalidation

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках engine
	ErrInternal = errors.New("autovalidation: internal error")
)
