// internal/api/handler.go
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"film-service/internal/domain"
	"film-service/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// Handler содержит зависимости для HTTP обработчиков
type Handler struct {
	svc       *service.Services
	logger    *slog.Logger
	validator *validator.Validate
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(svc *service.Services, l *slog.Logger, v *validator.Validate) *Handler {
	return &Handler{
		svc:       svc,
		logger:    l,
		validator: v,
	}
}

// errBadParam неверный параметр пути или запроса
var errBadParam = fmt.Errorf("%w: bad parameter", domain.ErrInvalidArgument)

// --- Вспомогательные функции ---

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// respondServiceError выбирает статус ответа по виду ошибки.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.logger.WarnContext(ctx, "Requested entity not found", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		h.logger.WarnContext(ctx, "Invalid request", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		h.logger.WarnContext(ctx, "Request conflicts with concurrent update", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeAndValidate читает тело запроса в dst и проверяет теги validate.
// При ошибке ответ уже отправлен.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	ctx := r.Context()
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if err := h.validator.StructCtx(ctx, dst); err != nil {
		h.logger.WarnContext(ctx, "Request validation failed", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// pathID разбирает числовой параметр пути.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return id, nil
}

// pathIDs разбирает несколько параметров пути по порядку.
func pathIDs(r *http.Request, names ...string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := pathID(r, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryInt64 разбирает необязательный целочисленный параметр запроса.
func queryInt64(r *http.Request, name string) (int64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return v, true, nil
}

// queryCount возвращает параметр count. Отсутствующее или неположительное
// значение заменяется fallback.
func queryCount(r *http.Request, fallback int) (int, error) {
	v, ok, err := queryInt64(r, "count")
	if err != nil {
		return 0, err
	}
	if !ok || v <= 0 {
		return fallback, nil
	}
	return int(v), nil
}

// Health отвечает на проверку живости.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
