package domain

import "errors"

var (
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrProfileNotFound = errors.New("user not found")
	ErrTagNotFound     = errors.New("tag not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUsernameTaken   = errors.New("that username is already taken")
)

// ValidationError — ошибка ввода формы, показывается пользователю как есть
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid создает ValidationError
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// RootCause возвращает самую внутреннюю ошибку цепочки (сообщение бэкенда)
func RootCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return err
}
