// apierrors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает доменную ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - короткий стабильный машиночитаемый код;
//   - краткое безопасное message без утечки внутренних деталей.
//
// Ошибки аутентификации отдаются единообразно: клиент не может различить
// битую подпись, просрочку и чужой тип токена.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Antony2500/teamhub/internal/service"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrInvalidJSON — транспортная ошибка разбора тела запроса (до сервисного слоя).
var ErrInvalidJSON = errors.New("invalid json body")

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// err == nil — это программная ошибка вызова: возвращаем 500/internal,
// чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := classify(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// classify — маппинг доменных ошибок на HTTP/код/сообщение.
// Валидация -> 400, конфликты уникальности -> 409, аутентификация -> 401
// (единое сообщение), истёкшее окно сброса -> 412, прочее -> 500/internal.
func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"

	case errors.Is(err, ErrInvalidJSON),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidTeamName):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"

	case errors.Is(err, service.ErrProtectedUsername):
		return http.StatusBadRequest, "protected_username", "username is not allowed"

	case errors.Is(err, service.ErrOldPasswordMismatch):
		return http.StatusBadRequest, "old_password_mismatch", "old password does not match"

	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrTeamNameTaken),
		errors.Is(err, service.ErrAlreadyMember):
		return http.StatusConflict, "already_exists", "already exists"

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrWrongTokenType),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"

	case errors.Is(err, service.ErrResetWindowExpired):
		return http.StatusPreconditionFailed, "reset_window_expired", "password reset window expired"

	case errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrNotMember):
		return http.StatusNotFound, "not_found", "not found"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"

	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"

	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
