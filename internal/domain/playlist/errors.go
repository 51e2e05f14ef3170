package playlist

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField возвращается, когда в ответе API нет обязательного поля
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidWindow возвращается для отрицательного offset или неположительного limit
	ErrInvalidWindow = errors.New("invalid track window")
)

// MissingFieldError указывает, какое именно поле отсутствует
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrMissingField)
func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
