package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrSelfFight          = errors.New("fighter cannot fight themselves")
	ErrWinnerNotInFight   = errors.New("winner must be one of the fight participants")
	ErrInvalidTimeEnded   = errors.New("time_ended must be in M:SS or MM:SS format")
	ErrFileTooLarge       = errors.New("file is too large")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrNegativeExtension  = errors.New("additional fights must not be negative")

	// Ошибки конфликтов
	ErrPhoneConflict          = errors.New("phone number is already in use")
	ErrFighterProfileExists   = errors.New("user already has a fighter profile")
	ErrFighterIDConflict      = errors.New("generated fighter id already exists")
	ErrContractNumberConflict = errors.New("contract number already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidOTP           = errors.New("incorrect or expired otp code")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Внешние сервисы
	ErrOTPDispatchFailed = errors.New("failed to send otp")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound        = errors.New("user not found")
	ErrFighterNotFound     = errors.New("fighter not found")
	ErrClubNotFound        = errors.New("club not found")
	ErrTrainerNotFound     = errors.New("trainer not found")
	ErrManagerNotFound     = errors.New("manager not found")
	ErrPromotionNotFound   = errors.New("promotion not found")
	ErrContractNotFound    = errors.New("contract not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrApplicationNotFound = errors.New("event application not found")
	ErrFightNotFound       = errors.New("fight not found")
	ErrTaskNotFound        = errors.New("task not found")
)
