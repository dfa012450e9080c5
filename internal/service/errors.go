package service

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Fields  map[string]string
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource RepoType, id int64) *BusinessError {
	return NewBusinessError(CodeNotFound, fmt.Sprintf("todo %d not found", id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

// NewValidationError собирает ошибки по полям в одну бизнес-ошибку
func NewValidationError(fields map[string]string, err error) *BusinessError {
	details := make([]Detail, 0, len(fields))
	for field, reason := range fields {
		details = append(details, ToDetail(field, reason))
	}

	busErr := NewBusinessError(CodeValidation, "invalid todo", details...)
	busErr.Fields = fields
	busErr.Err = err
	return busErr
}

func hasCode(err error, code string) bool {
	var busErr *BusinessError
	return errors.As(err, &busErr) && busErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// FieldErrors возвращает ошибки по полям, если err это ошибка валидации
func FieldErrors(err error) map[string]string {
	var busErr *BusinessError
	if errors.As(err, &busErr) && busErr.Code == CodeValidation {
		return busErr.Fields
	}
	return nil
}
