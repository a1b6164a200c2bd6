package models

import "time"

type Contract struct {
	ID             int    `json:"id"`
	ContractNumber string `json:"contract_number"`
	FighterID      int    `json:"fighter_id"`
	PromotionID    int    `json:"promotion_id"`

	StartDate       Date `json:"start_date"`
	EndDate         Date `json:"end_date"`
	TotalFights     int  `json:"total_fights"`
	RemainingFights int  `json:"remaining_fights"` // не больше TotalFights

	BaseFee                 *float64 `json:"base_fee,omitempty"`
	WinBonus                *float64 `json:"win_bonus,omitempty"`
	PerFightBonus           *float64 `json:"per_fight_bonus,omitempty"`
	EarlyTerminationPenalty *float64 `json:"early_termination_penalty,omitempty"`

	Status           ContractStatus `json:"status"`
	VerificationDate *time.Time     `json:"verification_date,omitempty"`
	ContractFileURL  *string        `json:"contract_file_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContractTerms - денежные условия контракта; nil-поле означает "не менять".
type ContractTerms struct {
	BaseFee                 *float64 `json:"base_fee,omitempty"`
	WinBonus                *float64 `json:"win_bonus,omitempty"`
	PerFightBonus           *float64 `json:"per_fight_bonus,omitempty"`
	EarlyTerminationPenalty *float64 `json:"early_termination_penalty,omitempty"`
}
