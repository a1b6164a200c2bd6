package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/camma-system/feed"
	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
)

type eventFixture struct {
	svc          *eventService
	tx           *fakeTx
	events       *fakeEventRepo
	fighters     *fakeFighterRepo
	fights       *fakeFightRepo
	applications *fakeApplicationRepo
	notifier     *fakeNotifier
	uploader     *fakeUploader
	metrics      *DomainMetrics
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		tx:           &fakeTx{},
		events:       &fakeEventRepo{},
		fighters:     &fakeFighterRepo{},
		fights:       &fakeFightRepo{},
		applications: &fakeApplicationRepo{},
		notifier:     &fakeNotifier{},
		uploader:     &fakeUploader{},
		metrics:      NewDomainMetrics(prometheus.NewRegistry()),
	}
	f.svc = NewEventService(EventServiceDeps{
		Tx:              f.tx,
		EventRepo:       f.events,
		ApplicationRepo: f.applications,
		FightRepo:       f.fights,
		MediaRepo:       &fakeMediaRepo{},
		Relations: &RelationChecker{
			Promotions: &fakePromotionRepo{},
			Fighters:   f.fighters,
			Events:     f.events,
		},
		Uploader:      f.uploader,
		Notifier:      f.notifier,
		MaxUploadSize: 64,
		Metrics:       f.metrics,
		Logger:        discardLogger,
	}).(*eventService)
	return f
}

func intPtr(v int) *int { return &v }

func TestEventService_CreateFight(t *testing.T) {
	f := newEventFixture()

	fight, err := f.svc.CreateFight(context.Background(), 10, CreateFightInput{Fighter1ID: 1, Fighter2ID: 2})
	require.NoError(t, err)
	assert.Equal(t, 10, fight.EventID)
	assert.Equal(t, 3, fight.Rounds)
	assert.Equal(t, 5, fight.RoundDuration)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, 1, f.events.increments)
	assert.Equal(t, []string{feed.MessageFightCreated}, f.notifier.messages)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.fightsCreated.WithLabelValues("fight")))
}

func TestEventService_CreateFight_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateFightInput
		setup   func(f *eventFixture)
		wantErr error
	}{
		{
			name:    "self pairing",
			input:   CreateFightInput{Fighter1ID: 4, Fighter2ID: 4},
			wantErr: ErrSelfFight,
		},
		{
			// существование проверяется раньше различия бойцов
			name:  "self pairing on missing event",
			input: CreateFightInput{Fighter1ID: 4, Fighter2ID: 4},
			setup: func(f *eventFixture) {
				f.events.GetByIDFunc = func(ctx context.Context, id int) (*models.Event, error) {
					return nil, repositories.ErrEventNotFound
				}
			},
			wantErr: ErrEventNotFound,
		},
		{
			name:  "self pairing on missing fighter",
			input: CreateFightInput{Fighter1ID: 4, Fighter2ID: 4},
			setup: func(f *eventFixture) {
				f.fighters.GetByIDFunc = func(ctx context.Context, id int) (*models.Fighter, error) {
					return nil, repositories.ErrFighterNotFound
				}
			},
			wantErr: ErrFighterNotFound,
		},
		{
			name:  "missing event",
			input: CreateFightInput{Fighter1ID: 1, Fighter2ID: 2},
			setup: func(f *eventFixture) {
				f.events.GetByIDFunc = func(ctx context.Context, id int) (*models.Event, error) {
					return nil, repositories.ErrEventNotFound
				}
			},
			wantErr: ErrEventNotFound,
		},
		{
			name:  "missing second fighter",
			input: CreateFightInput{Fighter1ID: 1, Fighter2ID: 2},
			setup: func(f *eventFixture) {
				f.fighters.GetByIDFunc = func(ctx context.Context, id int) (*models.Fighter, error) {
					if id == 2 {
						return nil, repositories.ErrFighterNotFound
					}
					return &models.Fighter{ID: id}, nil
				}
			},
			wantErr: ErrFighterNotFound,
		},
		{
			name:    "too many rounds",
			input:   CreateFightInput{Fighter1ID: 1, Fighter2ID: 2, Rounds: intPtr(6)},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "round too short",
			input:   CreateFightInput{Fighter1ID: 1, Fighter2ID: 2, RoundDuration: intPtr(2)},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "body event id mismatch",
			input:   CreateFightInput{EventID: intPtr(11), Fighter1ID: 1, Fighter2ID: 2},
			wantErr: ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.svc.CreateFight(context.Background(), 10, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.events.increments)
			assert.Empty(t, f.notifier.messages)
		})
	}
}

func TestEventService_CreateFightPair_AllowsSamePair(t *testing.T) {
	f := newEventFixture()
	f.fighters.GetByIDFunc = func(ctx context.Context, id int) (*models.Fighter, error) {
		t.Fatalf("fighter lookup is not expected on the pair path")
		return nil, nil
	}

	id, err := f.svc.CreateFightPair(context.Background(), 10, CreateFightPairInput{
		Fighter1ID: 4, Fighter2ID: 4, WeightClass: "Welterweight",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	require.Len(t, f.fights.created, 1)
	assert.Equal(t, 3, f.fights.created[0].Rounds)
	assert.Equal(t, 1, f.events.increments)
}

func TestEventService_CreateFightPair_MissingEvent(t *testing.T) {
	f := newEventFixture()
	f.events.GetByIDFunc = func(ctx context.Context, id int) (*models.Event, error) {
		return nil, repositories.ErrEventNotFound
	}

	_, err := f.svc.CreateFightPair(context.Background(), 10, CreateFightPairInput{Fighter1ID: 1, Fighter2ID: 2})
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.Empty(t, f.fights.created)
}

func TestEventService_CreateFightPair_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateFightPairInput
		field string
	}{
		{
			name:  "weight class too long",
			input: CreateFightPairInput{Fighter1ID: 1, Fighter2ID: 2, WeightClass: strings.Repeat("w", 51)},
			field: "weight_class",
		},
		{
			name:  "fight number below one",
			input: CreateFightPairInput{Fighter1ID: 1, Fighter2ID: 2, WeightClass: "Lightweight", FightNumber: intPtr(0)},
			field: "fight_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture()
			_, err := f.svc.CreateFightPair(context.Background(), 10, tt.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Empty(t, f.fights.created)
			assert.Zero(t, f.events.increments)
		})
	}
}

func TestEventService_CreateFight_CounterFailureIsNotPublished(t *testing.T) {
	f := newEventFixture()
	f.events.IncrementConfirmedPairsFunc = func(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
		return errors.New("connection reset")
	}

	_, err := f.svc.CreateFight(context.Background(), 10, CreateFightInput{Fighter1ID: 1, Fighter2ID: 2})
	assert.Error(t, err)
	assert.Empty(t, f.notifier.messages)
}

func TestEventService_RecordFightResult(t *testing.T) {
	stored := func() *models.Fight {
		return &models.Fight{ID: 3, EventID: 10, Fighter1ID: 1, Fighter2ID: 2, Rounds: 3, RoundDuration: 5}
	}
	ko := models.MethodKO
	win := models.ResultWin
	badMethod := models.FightMethod("Punch")

	tests := []struct {
		name    string
		eventID int
		input   FightResultInput
		wantErr error
	}{
		{name: "valid result", eventID: 10, input: FightResultInput{WinnerID: intPtr(2), Result: &win, Method: &ko, RoundEnded: intPtr(2), TimeEnded: strPtr("4:31")}},
		{name: "winner outside the pair", eventID: 10, input: FightResultInput{WinnerID: intPtr(9)}, wantErr: ErrWinnerNotInFight},
		{name: "bad time format", eventID: 10, input: FightResultInput{TimeEnded: strPtr("431")}, wantErr: ErrInvalidTimeEnded},
		{name: "unknown method", eventID: 10, input: FightResultInput{Method: &badMethod}, wantErr: ErrValidationFailed},
		{name: "round zero", eventID: 10, input: FightResultInput{RoundEnded: intPtr(0)}, wantErr: ErrValidationFailed},
		{name: "fight of another event", eventID: 11, input: FightResultInput{}, wantErr: ErrFightNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture()
			f.fights.GetByIDFunc = func(ctx context.Context, id int) (*models.Fight, error) { return stored(), nil }

			fight, err := f.svc.RecordFightResult(context.Background(), tt.eventID, 3, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.notifier.messages)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, *fight.WinnerID)
			assert.Equal(t, "4:31", *fight.TimeEnded)
			assert.Equal(t, []string{feed.MessageFightResultRecorded}, f.notifier.messages)
		})
	}
}

func TestEventService_CreateApplication(t *testing.T) {
	f := newEventFixture()

	app, err := f.svc.CreateApplication(context.Background(), 10, 77, CreateApplicationInput{FighterID: 5})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDraft, app.Status)
	assert.Equal(t, 77, app.ApplicantUserID)
	assert.Equal(t, 10, app.EventID)

	_, err = f.svc.CreateApplication(context.Background(), 10, 77, CreateApplicationInput{EventID: intPtr(12), FighterID: 5})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestEventService_UpdateApplication(t *testing.T) {
	f := newEventFixture()
	f.applications.GetByIDFunc = func(ctx context.Context, id int) (*models.EventApplication, error) {
		return &models.EventApplication{ID: id, EventID: 10, FighterID: 5, Status: models.ApplicationDraft}, nil
	}

	status := models.ApplicationApproved
	app, err := f.svc.UpdateApplication(context.Background(), 10, 1, ApplicationUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, app.Status)
	assert.Equal(t, []string{feed.MessageApplicationUpdated}, f.notifier.messages)

	_, err = f.svc.UpdateApplication(context.Background(), 12, 1, ApplicationUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	unknown := models.ApplicationStatus("maybe")
	_, err = f.svc.UpdateApplication(context.Background(), 10, 1, ApplicationUpdate{Status: &unknown})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestEventService_CreateEvent_RequiresPromotion(t *testing.T) {
	f := newEventFixture()
	f.svc.Relations.Promotions = &fakePromotionRepo{GetByIDFunc: func(ctx context.Context, id int) (*models.Promotion, error) {
		return nil, repositories.ErrPromotionNotFound
	}}

	_, err := f.svc.CreateEvent(context.Background(), CreateEventInput{
		Name: "CAMMA Open", EventType: models.EventTypeTournament, EventDate: testTime, OrganizerID: 3,
	})
	assert.ErrorIs(t, err, ErrPromotionNotFound)

	_, err = f.svc.CreateEvent(context.Background(), CreateEventInput{
		Name: "CAMMA Open", EventType: "Party", EventDate: testTime, OrganizerID: 3,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestEventService_UploadMedia(t *testing.T) {
	f := newEventFixture()
	typ := "image"

	media, err := f.svc.UploadMedia(context.Background(), 10, 1, MediaInput{Title: "Weigh-in", FileType: &typ, Tags: []string{"weigh-in", "day1"}},
		"weigh in.jpg", 4, strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(media.FileURL, "https://cdn.test/events/10/"))
	assert.True(t, strings.HasSuffix(media.FileURL, "_weigh-in.jpg"))
	assert.Equal(t, []string{"weigh-in", "day1"}, media.Tags)

	_, err = f.svc.UploadMedia(context.Background(), 10, 1, MediaInput{Title: "Big"}, "big.mp4", 1000, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
