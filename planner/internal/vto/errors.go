package vto

import (
	"errors"
	"fmt"
)

// Ошибки валидации
var (
	ErrInvalidStage       = errors.New("invalid CVMS stage")
	ErrInvalidProcedure   = errors.New("invalid treatment procedure")
	ErrInvalidMeasurement = errors.New("invalid measurement")
	ErrInvalidGoal        = errors.New("invalid treatment goal")
)

// ValidationError указывает поле, не прошедшее проверку
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s = %v", e.Err, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, field string, value any) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// Code возвращает машиночитаемый код ошибки для транспортов.
// Для ошибок не из таксономии движка возвращает пустую строку.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidStage):
		return "invalid_stage"
	case errors.Is(err, ErrInvalidProcedure):
		return "invalid_procedure"
	case errors.Is(err, ErrInvalidMeasurement):
		return "invalid_measurement"
	case errors.Is(err, ErrInvalidGoal):
		return "invalid_goal"
	}
	return ""
}

// FieldOf возвращает имя поля из ValidationError, если оно есть
func FieldOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
