package models

import "time"

type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	EventType   EventType `json:"event_type"`
	EventDate   time.Time `json:"event_date"`
	Venue       *string   `json:"venue,omitempty"`
	City        *string   `json:"city,omitempty"`
	Country     *string   `json:"country,omitempty"`
	OrganizerID int       `json:"organizer_id"` // промоушен-организатор

	TotalSlots          int `json:"total_slots"`
	ConfirmedPairs      int `json:"confirmed_pairs"` // равно числу боёв события
	PendingApplications int `json:"pending_applications"`
	ApprovedWithoutPair int `json:"approved_without_pair"`

	PosterURL   *string `json:"poster_url,omitempty"`
	Description *string `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventApplication struct {
	ID              int `json:"id"`
	EventID         int `json:"event_id"`
	FighterID       int `json:"fighter_id"`
	ApplicantUserID int `json:"applicant_user_id"`

	DesiredWeightClass *string           `json:"desired_weight_class,omitempty"`
	Comments           *string           `json:"comments,omitempty"`
	Status             ApplicationStatus `json:"status"`

	MedicalDocsURL        *string `json:"medical_docs_url,omitempty"`
	AntidopingTestDate    *Date   `json:"antidoping_test_date,omitempty"`
	AntidopingTestResult  *string `json:"antidoping_test_result,omitempty"`
	AntidopingConductedBy *string `json:"antidoping_conducted_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Fight struct {
	ID         int `json:"id"`
	EventID    int `json:"event_id"`
	Fighter1ID int `json:"fighter1_id"`
	Fighter2ID int `json:"fighter2_id"`

	FightNumber   *int    `json:"fight_number,omitempty"`
	WeightClass   *string `json:"weight_class,omitempty"`
	Rounds        int     `json:"rounds"`
	RoundDuration int     `json:"round_duration"` // минуты

	WinnerID   *int         `json:"winner_id,omitempty"`
	Result     *FightResult `json:"result,omitempty"`
	Method     *FightMethod `json:"method,omitempty"`
	RoundEnded *int         `json:"round_ended,omitempty"`
	TimeEnded  *string      `json:"time_ended,omitempty"` // MM:SS

	VideoURL     *string `json:"video_url,omitempty"`
	HighlightURL *string `json:"highlight_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MediaContent struct {
	ID           int       `json:"id"`
	EventID      int       `json:"event_id"`
	Title        string    `json:"title"`
	FileURL      string    `json:"file_url"`
	FileType     *string   `json:"file_type,omitempty"` // image, video, document
	Tags         []string  `json:"tags"`
	Description  *string   `json:"description,omitempty"`
	UploadedByID int       `json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}
