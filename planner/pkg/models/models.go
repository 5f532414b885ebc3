package models

import (
	"time"

	"github.com/Krimson/dental-vto/planner/internal/vto"
)

// StatusCalculated - статус успешного расчета
const StatusCalculated = "calculated"

// CalculationResponse - ответ на запрос расчета VTO
type CalculationResponse struct {
	CalculationID string           `json:"calculation_id"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	Result        *vto.Result      `json:"result"`
	Final         FinalMovements   `json:"final"`
	Spaces        SpaceStatusBlock `json:"space_status"`
}

// FinalMovements - итоговые перемещения по зубам для диаграммы
type FinalMovements struct {
	Upper []vto.ToothMovement `json:"upper"`
	Lower []vto.ToothMovement `json:"lower"`
}

// SpaceStatusBlock - статус остатка места по дугам и сторонам с учетом роста
type SpaceStatusBlock struct {
	UpperRight string `json:"upper_right"`
	UpperLeft  string `json:"upper_left"`
	LowerRight string `json:"lower_right"`
	LowerLeft  string `json:"lower_left"`
}

// GrowthRequest - запрос поправки на рост
type GrowthRequest struct {
	Stage vto.Stage `json:"stage"`
}

// SpaceRequest - запрос анализа места одной дуги
type SpaceRequest struct {
	Measurement vto.Measurement     `json:"measurement"`
	Arch        vto.ArchDiscrepancy `json:"arch"`
}

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Field  string `json:"field,omitempty"`
	Status int    `json:"status"`
}
