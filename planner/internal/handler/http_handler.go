package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Krimson/dental-vto/planner/internal/metrics"
	"github.com/Krimson/dental-vto/planner/internal/service"
	"github.com/Krimson/dental-vto/planner/internal/vto"
	"github.com/Krimson/dental-vto/planner/pkg/models"
)

const maxBodyBytes = 1 << 20

// HTTPHandler обрабатывает HTTP запросы расчета VTO (Presentation Layer)
type HTTPHandler struct {
	service *service.PlannerService
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(svc *service.PlannerService) *HTTPHandler {
	return &HTTPHandler{
		service: svc,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/vto").Subrouter()

	api.HandleFunc("/calculate", h.Calculate).Methods("POST")
	api.HandleFunc("/growth", h.Growth).Methods("POST")
	api.HandleFunc("/space", h.Space).Methods("POST")
	api.HandleFunc("/tables", h.Tables).Methods("GET")

	router.HandleFunc("/health", h.Health).Methods("GET")
}

// Calculate выполняет полный расчет VTO
// @Summary Полный расчет VTO
// @Description Рост по CVMS, анализ места верхней и нижней дуги, восемь шагов McLaughlin и коррекция средней линии
// @Tags VTO
// @Accept json
// @Produce json
// @Param input body vto.Input true "Измерения, стадия роста, анализ места, цель лечения"
// @Success 200 {object} models.CalculationResponse "Результат расчета"
// @Failure 400 {object} models.ErrorResponse "Неверное тело запроса"
// @Failure 422 {object} models.ErrorResponse "Недопустимые входные данные"
// @Router /api/vto/calculate [post]
func (h *HTTPHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var in vto.Input
	if !decodeBody(w, r, &in) {
		return
	}

	resp, err := h.service.Calculate(r.Context(), metrics.TransportHTTP, in)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Growth возвращает поправку на рост
// @Summary Поправка на рост по стадии CVMS
// @Tags VTO
// @Accept json
// @Produce json
// @Param request body models.GrowthRequest true "Стадия CVMS (1-6)"
// @Success 200 {object} vto.AdjustmentVector
// @Failure 422 {object} models.ErrorResponse "Недопустимая стадия"
// @Router /api/vto/growth [post]
func (h *HTTPHandler) Growth(w http.ResponseWriter, r *http.Request) {
	var req models.GrowthRequest
	if !decodeBody(w, r, &req) {
		return
	}

	adj, err := h.service.Growth(r.Context(), req)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, adj)
}

// Space возвращает анализ места одной дуги
// @Summary Анализ места дуги
// @Tags VTO
// @Accept json
// @Produce json
// @Param request body models.SpaceRequest true "Измерения и данные дуги"
// @Success 200 {object} vto.SpaceAnalysis
// @Failure 422 {object} models.ErrorResponse "Недопустимые данные или процедура"
// @Router /api/vto/space [post]
func (h *HTTPHandler) Space(w http.ResponseWriter, r *http.Request) {
	var req models.SpaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	space, err := h.service.Space(r.Context(), req)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, space)
}

// Tables возвращает справочные таблицы
// @Summary Действующие справочные таблицы
// @Tags VTO
// @Produce json
// @Success 200 {object} vto.Tables
// @Router /api/vto/tables [get]
func (h *HTTPHandler) Tables(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Tables())
}

// Health - проверка живости
// @Summary Проверка живости
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ===== Утилиты =====

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "", "", "Invalid request body")
		return false
	}
	return true
}

func respondEngineError(w http.ResponseWriter, err error) {
	if code := vto.Code(err); code != "" {
		respondError(w, http.StatusUnprocessableEntity, code, vto.FieldOf(err), err.Error())
		return
	}

	log.Printf("[ERROR] Calculation failed: %v", err)
	respondError(w, http.StatusInternalServerError, "", "", "Calculation failed")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, field, message string) {
	respondJSON(w, status, models.ErrorResponse{
		Error:  message,
		Code:   code,
		Field:  field,
		Status: status,
	})
}

// EnableCORS добавляет CORS заголовки для UI
func EnableCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(w, r)
	})
}
