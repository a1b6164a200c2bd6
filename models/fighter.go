package models

import "time"

// FighterPassportPrefix - префикс цифрового паспорта бойца.
const FighterPassportPrefix = "CAMMA"

type Fighter struct {
	ID        int    `json:"id"`
	UserID    *int   `json:"user_id,omitempty"`
	FighterID string `json:"fighter_id"` // цифровой паспорт, CAMMA + 8 hex

	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	MiddleName  *string `json:"middle_name,omitempty"`
	BirthDate   Date    `json:"birth_date"`
	BirthPlace  *string `json:"birth_place,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Gender      Gender  `json:"gender"`

	Height      *int    `json:"height,omitempty"`
	WeightClass *string `json:"weight_class,omitempty"`

	PassportSeries *string `json:"passport_series,omitempty"`
	PassportNumber *string `json:"passport_number,omitempty"`

	PhotoURL *string `json:"photo_url,omitempty"`

	Wins          int   `json:"wins"`
	Losses        int   `json:"losses"`
	Draws         int   `json:"draws"`
	LastFightDate *Date `json:"last_fight_date,omitempty"`

	VerificationStatus  VerificationStatus  `json:"verification_status"`
	ParticipationStatus ParticipationStatus `json:"participation_status"`
	IsVerified          bool                `json:"is_verified"`
	VerificationDate    *time.Time          `json:"verification_date,omitempty"`
	VerifiedBy          *string             `json:"verified_by,omitempty"`

	IsAvailable bool  `json:"is_available"`
	IsInjured   bool  `json:"is_injured"`
	InjuryDate  *Date `json:"injury_date,omitempty"`

	ClubID      *int `json:"club_id,omitempty"`
	TrainerID   *int `json:"trainer_id,omitempty"`
	ManagerID   *int `json:"manager_id,omitempty"`
	PromotionID *int `json:"promotion_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Achievement struct {
	ID             int       `json:"id"`
	FighterID      int       `json:"fighter_id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	DateAchieved   *Date     `json:"date_achieved,omitempty"`
	CertificateURL *string   `json:"certificate_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegistrationResult - ответ на регистрацию бойца третьим лицом (тренер, менеджер).
type RegistrationResult struct {
	Success              bool   `json:"success"`
	Message              string `json:"message"`
	FighterID            *int   `json:"fighter_id,omitempty"`
	VerificationRequired bool   `json:"verification_required"`
}
