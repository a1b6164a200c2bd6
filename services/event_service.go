package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/Dosada05/camma-system/feed"
	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
	"github.com/Dosada05/camma-system/storage"
)

// FightCardNotifier получает изменения боевой карты после commit.
type FightCardNotifier interface {
	Publish(eventID int, messageType string, payload interface{})
}

type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context, page repositories.Pagination) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id int, input EventUpdate) (*models.Event, error)

	CreateApplication(ctx context.Context, eventID, applicantUserID int, input CreateApplicationInput) (*models.EventApplication, error)
	ListApplications(ctx context.Context, eventID int) ([]models.EventApplication, error)
	UpdateApplication(ctx context.Context, eventID, applicationID int, input ApplicationUpdate) (*models.EventApplication, error)

	CreateFight(ctx context.Context, eventID int, input CreateFightInput) (*models.Fight, error)
	CreateFightPair(ctx context.Context, eventID int, input CreateFightPairInput) (int, error)
	ListFights(ctx context.Context, eventID int) ([]models.Fight, error)
	RecordFightResult(ctx context.Context, eventID, fightID int, input FightResultInput) (*models.Fight, error)

	UploadMedia(ctx context.Context, eventID, userID int, input MediaInput, filename string, size int64, file io.Reader) (*models.MediaContent, error)
	ListMedia(ctx context.Context, eventID int) ([]models.MediaContent, error)
}

type CreateEventInput struct {
	Name        string           `json:"name"`
	EventType   models.EventType `json:"event_type"`
	EventDate   time.Time        `json:"event_date"`
	Venue       *string          `json:"venue"`
	City        *string          `json:"city"`
	Country     *string          `json:"country"`
	Description *string          `json:"description"`
	OrganizerID int              `json:"organizer_id"`
	TotalSlots  *int             `json:"total_slots"`
}

type EventUpdate struct {
	Name                *string           `json:"name"`
	EventType           *models.EventType `json:"event_type"`
	EventDate           *time.Time        `json:"event_date"`
	Venue               *string           `json:"venue"`
	City                *string           `json:"city"`
	Country             *string           `json:"country"`
	Description         *string           `json:"description"`
	OrganizerID         *int              `json:"organizer_id"`
	TotalSlots          *int              `json:"total_slots"`
	PendingApplications *int              `json:"pending_applications"`
	ApprovedWithoutPair *int              `json:"approved_without_pair"`
	PosterURL           *string           `json:"poster_url"`
}

type CreateApplicationInput struct {
	EventID            *int    `json:"event_id"`
	FighterID          int     `json:"fighter_id"`
	DesiredWeightClass *string `json:"desired_weight_class"`
	Comments           *string `json:"comments"`
}

type ApplicationUpdate struct {
	Status                *models.ApplicationStatus `json:"status"`
	DesiredWeightClass    *string                   `json:"desired_weight_class"`
	Comments              *string                   `json:"comments"`
	MedicalDocsURL        *string                   `json:"medical_docs_url"`
	AntidopingTestDate    *models.Date              `json:"antidoping_test_date"`
	AntidopingTestResult  *string                   `json:"antidoping_test_result"`
	AntidopingConductedBy *string                   `json:"antidoping_conducted_by"`
}

type CreateFightInput struct {
	EventID       *int    `json:"event_id"`
	Fighter1ID    int     `json:"fighter1_id"`
	Fighter2ID    int     `json:"fighter2_id"`
	FightNumber   *int    `json:"fight_number"`
	WeightClass   *string `json:"weight_class"`
	Rounds        *int    `json:"rounds"`
	RoundDuration *int    `json:"round_duration"`
}

type CreateFightPairInput struct {
	Fighter1ID    int    `json:"fighter1_id"`
	Fighter2ID    int    `json:"fighter2_id"`
	WeightClass   string `json:"weight_class"`
	Rounds        *int   `json:"rounds"`
	RoundDuration *int   `json:"round_duration"`
	FightNumber   *int   `json:"fight_number"`
}

type FightResultInput struct {
	WinnerID     *int                `json:"winner_id"`
	Result       *models.FightResult `json:"result"`
	Method       *models.FightMethod `json:"method"`
	RoundEnded   *int                `json:"round_ended"`
	TimeEnded    *string             `json:"time_ended"`
	VideoURL     *string             `json:"video_url"`
	HighlightURL *string             `json:"highlight_url"`
}

type MediaInput struct {
	Title       string
	FileType    *string
	Tags        []string
	Description *string
}

const (
	defaultRounds        = 3
	defaultRoundDuration = 5
)

type EventServiceDeps struct {
	Tx              repositories.Transactor
	EventRepo       repositories.EventRepository
	ApplicationRepo repositories.ApplicationRepository
	FightRepo       repositories.FightRepository
	MediaRepo       repositories.MediaRepository
	Relations       *RelationChecker
	Uploader        storage.FileUploader
	Notifier        FightCardNotifier
	MaxUploadSize   int64
	Metrics         *DomainMetrics
	Logger          *slog.Logger
}

type eventService struct {
	EventServiceDeps
}

func NewEventService(deps EventServiceDeps) EventService {
	return &eventService{EventServiceDeps: deps}
}

func (s *eventService) notify(eventID int, messageType string, payload interface{}) {
	if s.Notifier != nil {
		s.Notifier.Publish(eventID, messageType, payload)
	}
}

func validateEvent(v *validator, e *models.Event) {
	v.length(e.Name, "name", 1, 200)
	v.check(e.EventType.IsValid(), "event_type", "unknown event type")
	v.check(!e.EventDate.IsZero(), "event_date", "is required")
	v.optionalLength(e.Venue, "venue", 200)
	v.optionalLength(e.City, "city", 100)
	v.optionalLength(e.Country, "country", 100)
	v.check(e.TotalSlots >= 0, "total_slots", "must not be negative")
	v.check(e.PendingApplications >= 0, "pending_applications", "must not be negative")
	v.check(e.ApprovedWithoutPair >= 0, "approved_without_pair", "must not be negative")
}

func (s *eventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	event := &models.Event{
		Name:        in.Name,
		EventType:   in.EventType,
		EventDate:   in.EventDate.UTC(),
		Venue:       in.Venue,
		City:        in.City,
		Country:     in.Country,
		Description: in.Description,
		OrganizerID: in.OrganizerID,
	}
	setIfNotNil(&event.TotalSlots, in.TotalSlots)

	v := newValidator()
	validateEvent(v, event)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.Relations.Promotion(ctx, in.OrganizerID); err != nil {
		return nil, err
	}

	if err := s.EventRepo.Create(ctx, event); err != nil {
		return nil, mapEventRepoError(err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.EventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, page repositories.Pagination) ([]models.Event, error) {
	events, err := s.EventRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int, in EventUpdate) (*models.Event, error) {
	event, err := s.EventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err)
	}

	setIfNotNil(&event.Name, in.Name)
	setIfNotNil(&event.EventType, in.EventType)
	if in.EventDate != nil {
		event.EventDate = in.EventDate.UTC()
	}
	setPtrIfNotNil(&event.Venue, in.Venue)
	setPtrIfNotNil(&event.City, in.City)
	setPtrIfNotNil(&event.Country, in.Country)
	setPtrIfNotNil(&event.Description, in.Description)
	setIfNotNil(&event.OrganizerID, in.OrganizerID)
	setIfNotNil(&event.TotalSlots, in.TotalSlots)
	setIfNotNil(&event.PendingApplications, in.PendingApplications)
	setIfNotNil(&event.ApprovedWithoutPair, in.ApprovedWithoutPair)
	setPtrIfNotNil(&event.PosterURL, in.PosterURL)

	v := newValidator()
	validateEvent(v, event)
	if err := v.err(); err != nil {
		return nil, err
	}
	if in.OrganizerID != nil {
		if err := s.Relations.Promotion(ctx, *in.OrganizerID); err != nil {
			return nil, err
		}
	}

	if err := s.EventRepo.Update(ctx, event); err != nil {
		return nil, mapEventRepoError(err)
	}
	return event, nil
}

func (s *eventService) CreateApplication(ctx context.Context, eventID, applicantUserID int, in CreateApplicationInput) (*models.EventApplication, error) {
	v := newValidator()
	if in.EventID != nil {
		v.check(*in.EventID == eventID, "event_id", "does not match the event in the path")
	}
	v.optionalLength(in.DesiredWeightClass, "desired_weight_class", 50)
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.Relations.Event(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.Relations.Fighter(ctx, in.FighterID); err != nil {
		return nil, err
	}

	app := &models.EventApplication{
		EventID:            eventID,
		FighterID:          in.FighterID,
		ApplicantUserID:    applicantUserID,
		DesiredWeightClass: in.DesiredWeightClass,
		Comments:           in.Comments,
		Status:             models.ApplicationDraft,
	}
	if err := s.ApplicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *eventService) ListApplications(ctx context.Context, eventID int) ([]models.EventApplication, error) {
	if err := s.Relations.Event(ctx, eventID); err != nil {
		return nil, err
	}
	apps, err := s.ApplicationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *eventService) UpdateApplication(ctx context.Context, eventID, applicationID int, in ApplicationUpdate) (*models.EventApplication, error) {
	v := newValidator()
	if in.Status != nil {
		v.check(in.Status.IsValid(), "status", "unknown application status")
	}
	v.optionalLength(in.DesiredWeightClass, "desired_weight_class", 50)
	v.optionalLength(in.AntidopingTestResult, "antidoping_test_result", 100)
	v.optionalLength(in.AntidopingConductedBy, "antidoping_conducted_by", 200)
	if err := v.err(); err != nil {
		return nil, err
	}

	app, err := s.ApplicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.EventID != eventID {
		return nil, ErrApplicationNotFound
	}

	setIfNotNil(&app.Status, in.Status)
	setPtrIfNotNil(&app.DesiredWeightClass, in.DesiredWeightClass)
	setPtrIfNotNil(&app.Comments, in.Comments)
	setPtrIfNotNil(&app.MedicalDocsURL, in.MedicalDocsURL)
	setPtrIfNotNil(&app.AntidopingTestDate, in.AntidopingTestDate)
	setPtrIfNotNil(&app.AntidopingTestResult, in.AntidopingTestResult)
	setPtrIfNotNil(&app.AntidopingConductedBy, in.AntidopingConductedBy)

	if err := s.ApplicationRepo.Update(ctx, app); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	s.notify(eventID, feed.MessageApplicationUpdated, app)
	return app, nil
}

// CreateFight проверяет форму запроса, существование события и обоих бойцов,
// и только потом различие бойцов. Бой и счётчик confirmed_pairs пишутся в одной транзакции.
func (s *eventService) CreateFight(ctx context.Context, eventID int, in CreateFightInput) (*models.Fight, error) {
	fight := &models.Fight{
		EventID:       eventID,
		Fighter1ID:    in.Fighter1ID,
		Fighter2ID:    in.Fighter2ID,
		FightNumber:   in.FightNumber,
		WeightClass:   in.WeightClass,
		Rounds:        defaultRounds,
		RoundDuration: defaultRoundDuration,
	}
	setIfNotNil(&fight.Rounds, in.Rounds)
	setIfNotNil(&fight.RoundDuration, in.RoundDuration)

	v := newValidator()
	if in.EventID != nil {
		v.check(*in.EventID == eventID, "event_id", "does not match the event in the path")
	}
	if fight.FightNumber != nil {
		v.check(*fight.FightNumber >= 1, "fight_number", "must be at least 1")
	}
	v.optionalLength(fight.WeightClass, "weight_class", 50)
	v.check(fight.Rounds >= 1 && fight.Rounds <= 5, "rounds", "must be between 1 and 5")
	v.check(fight.RoundDuration >= 3 && fight.RoundDuration <= 10, "round_duration", "must be between 3 and 10 minutes")
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.Relations.Event(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.Relations.Fighter(ctx, in.Fighter1ID); err != nil {
		return nil, err
	}
	if err := s.Relations.Fighter(ctx, in.Fighter2ID); err != nil {
		return nil, err
	}
	if in.Fighter1ID == in.Fighter2ID {
		return nil, ErrSelfFight
	}

	if err := s.insertFight(ctx, fight); err != nil {
		return nil, err
	}
	s.Metrics.fightCreated("fight")
	s.notify(eventID, feed.MessageFightCreated, fight)
	return fight, nil
}

// CreateFightPair проверяет форму запроса и существование события: бойцы не проверяются
// ни на существование, ни на различие.
func (s *eventService) CreateFightPair(ctx context.Context, eventID int, in CreateFightPairInput) (int, error) {
	v := newValidator()
	v.optionalLength(&in.WeightClass, "weight_class", 50)
	if in.FightNumber != nil {
		v.check(*in.FightNumber >= 1, "fight_number", "must be at least 1")
	}
	if err := v.err(); err != nil {
		return 0, err
	}

	if err := s.Relations.Event(ctx, eventID); err != nil {
		return 0, err
	}

	fight := &models.Fight{
		EventID:       eventID,
		Fighter1ID:    in.Fighter1ID,
		Fighter2ID:    in.Fighter2ID,
		FightNumber:   in.FightNumber,
		WeightClass:   &in.WeightClass,
		Rounds:        defaultRounds,
		RoundDuration: defaultRoundDuration,
	}
	setIfNotNil(&fight.Rounds, in.Rounds)
	setIfNotNil(&fight.RoundDuration, in.RoundDuration)

	if err := s.insertFight(ctx, fight); err != nil {
		return 0, err
	}
	s.Metrics.fightCreated("pair")
	s.notify(eventID, feed.MessageFightCreated, fight)
	return fight.ID, nil
}

func (s *eventService) insertFight(ctx context.Context, fight *models.Fight) error {
	err := s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.FightRepo.Create(ctx, exec, fight); err != nil {
			return err
		}
		return s.EventRepo.IncrementConfirmedPairs(ctx, exec, fight.EventID)
	})
	if err != nil {
		return mapEventRepoError(err)
	}
	return nil
}

func (s *eventService) ListFights(ctx context.Context, eventID int) ([]models.Fight, error) {
	if err := s.Relations.Event(ctx, eventID); err != nil {
		return nil, err
	}
	fights, err := s.FightRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fights: %w", err)
	}
	return fights, nil
}

func (s *eventService) RecordFightResult(ctx context.Context, eventID, fightID int, in FightResultInput) (*models.Fight, error) {
	v := newValidator()
	if in.Result != nil {
		v.check(in.Result.IsValid(), "result", "unknown fight result")
	}
	if in.Method != nil {
		v.check(in.Method.IsValid(), "method", "unknown fight method")
	}
	if in.RoundEnded != nil {
		v.check(*in.RoundEnded >= 1, "round_ended", "must be at least 1")
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if in.TimeEnded != nil && !timeEndedPattern.MatchString(*in.TimeEnded) {
		return nil, ErrInvalidTimeEnded
	}

	fight, err := s.FightRepo.GetByID(ctx, fightID)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	if fight.EventID != eventID {
		return nil, ErrFightNotFound
	}
	if in.WinnerID != nil && *in.WinnerID != fight.Fighter1ID && *in.WinnerID != fight.Fighter2ID {
		return nil, ErrWinnerNotInFight
	}

	setPtrIfNotNil(&fight.WinnerID, in.WinnerID)
	setPtrIfNotNil(&fight.Result, in.Result)
	setPtrIfNotNil(&fight.Method, in.Method)
	setPtrIfNotNil(&fight.RoundEnded, in.RoundEnded)
	setPtrIfNotNil(&fight.TimeEnded, in.TimeEnded)
	setPtrIfNotNil(&fight.VideoURL, in.VideoURL)
	setPtrIfNotNil(&fight.HighlightURL, in.HighlightURL)

	if err := s.FightRepo.UpdateResult(ctx, fight); err != nil {
		return nil, mapEventRepoError(err)
	}
	s.notify(eventID, feed.MessageFightResultRecorded, fight)
	return fight, nil
}

var mediaFileTypes = map[string]bool{"image": true, "video": true, "document": true}

func (s *eventService) UploadMedia(ctx context.Context, eventID, userID int, in MediaInput, filename string, size int64, file io.Reader) (*models.MediaContent, error) {
	v := newValidator()
	v.length(in.Title, "title", 1, 200)
	if in.FileType != nil {
		v.check(mediaFileTypes[*in.FileType], "file_type", "must be one of image, video, document")
	}
	v.check(filename != "", "file", "is required")
	if err := v.err(); err != nil {
		return nil, err
	}
	if s.MaxUploadSize > 0 && size > s.MaxUploadSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.MaxUploadSize)
	}

	if err := s.Relations.Event(ctx, eventID); err != nil {
		return nil, err
	}

	data, err := readAllLimited(file, s.MaxUploadSize)
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := storage.MediaKey(eventID, filename)
	result, err := s.Uploader.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store media file: %w", err)
	}

	media := &models.MediaContent{
		EventID:      eventID,
		Title:        in.Title,
		FileURL:      result.Location,
		FileType:     in.FileType,
		Tags:         in.Tags,
		Description:  in.Description,
		UploadedByID: userID,
	}
	if err := s.MediaRepo.Create(ctx, media); err != nil {
		if delErr := s.Uploader.Delete(context.Background(), key); delErr != nil {
			s.Logger.WarnContext(ctx, "failed to remove orphaned media", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, mapEventRepoError(err)
	}
	s.Metrics.uploadStored("event_media")
	return media, nil
}

func (s *eventService) ListMedia(ctx context.Context, eventID int) ([]models.MediaContent, error) {
	if err := s.Relations.Event(ctx, eventID); err != nil {
		return nil, err
	}
	return s.MediaRepo.ListByEvent(ctx, eventID)
}

func mapEventRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrFightNotFound):
		return ErrFightNotFound
	case errors.Is(err, repositories.ErrPromotionNotFound):
		return ErrPromotionNotFound
	default:
		return err
	}
}
