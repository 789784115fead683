// internal/domain/errors.go
package domain

import "errors"

// Виды ошибок. Конкретные ошибки хранилища и сервисов оборачивают один из них,
// транспортный слой сопоставляет вид ошибки со статусом через errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)
