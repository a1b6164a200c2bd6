package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/camma-system/middleware"
	"github.com/Dosada05/camma-system/repositories"
	"github.com/Dosada05/camma-system/services"
)

type jsonResponse map[string]interface{}

const (
	maxJSONBytes = 1_048_576
	maxListLimit = 1000
)

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxJSONBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxJSONBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// respond пишет ответ и логирует, если запись не удалась.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", slog.Any("error", err))
	}
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	errorResponse(w, r, http.StatusBadRequest, fields)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

// NotFound и MethodNotAllowed подключаются к роутеру, чтобы неизвестные пути отвечали тем же форматом.
func NotFound(w http.ResponseWriter, r *http.Request) { notFoundResponse(w, r) }

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) { methodNotAllowedResponse(w, r) }

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		failedValidationResponse(w, r, validationErr.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFighterNotFound),
		errors.Is(err, services.ErrClubNotFound),
		errors.Is(err, services.ErrTrainerNotFound),
		errors.Is(err, services.ErrManagerNotFound),
		errors.Is(err, services.ErrPromotionNotFound),
		errors.Is(err, services.ErrContractNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrFightNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		errorResponse(w, r, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrPhoneConflict),
		errors.Is(err, services.ErrFighterProfileExists),
		errors.Is(err, services.ErrFighterIDConflict),
		errors.Is(err, services.ErrContractNumberConflict):
		errorResponse(w, r, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidPhoneNumber),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrSelfFight),
		errors.Is(err, services.ErrWinnerNotInFight),
		errors.Is(err, services.ErrInvalidTimeEnded),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrInvalidFileType),
		errors.Is(err, services.ErrNegativeExtension):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrAuthenticationFailed):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrForbiddenOperation):
		errorResponse(w, r, http.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrOTPDispatchFailed):
		// причину отказа шлюза наружу не отдаём
		slog.WarnContext(r.Context(), "otp dispatch failed", slog.Any("error", err))
		errorResponse(w, r, http.StatusServiceUnavailable, services.ErrOTPDispatchFailed.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// currentUserID достаёт id пользователя, положенный middleware.Authenticate.
func currentUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return 0, false
	}
	return id, true
}

// parsePagination читает skip и limit из query; по умолчанию skip=0, limit=100.
func parsePagination(r *http.Request) (repositories.Pagination, error) {
	page := repositories.Pagination{Skip: 0, Limit: repositories.DefaultListLimit}
	q := r.URL.Query()

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return page, fmt.Errorf("skip must be a non-negative integer")
		}
		page.Skip = skip
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			return page, fmt.Errorf("limit must be an integer between 1 and %d", maxListLimit)
		}
		page.Limit = limit
	}
	return page, nil
}

// readUpload разбирает multipart-форму и возвращает файл из поля field.
// Тело ограничено maxSize плюс запас на остальные поля формы.
func readUpload(w http.ResponseWriter, r *http.Request, field string, maxSize int64) (multipart.File, *multipart.FileHeader, error) {
	const formOverhead = 1 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, nil, fmt.Errorf("%w: limit is %d bytes", services.ErrFileTooLarge, maxSize)
		}
		return nil, nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("form field %q with a file is required", field)
	}
	return file, header, nil
}
