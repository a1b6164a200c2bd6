package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
	"github.com/Dosada05/camma-system/storage"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeTx выполняет fn без настоящей транзакции и считает вызовы.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

// memUserRepo - in-memory репозиторий пользователей с честной семантикой OTP.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.PhoneNumber]; ok {
		return repositories.ErrUserPhoneConflict
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.PhoneNumber] = &stored
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) GetByPhone(ctx context.Context, exec repositories.SQLExecutor, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[phone]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpsertOTP(ctx context.Context, phone string, role models.UserRole, code string, expiresAt time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[phone]
	if !ok {
		r.nextID++
		u = &models.User{ID: r.nextID, PhoneNumber: phone, Role: role, IsActive: true}
		r.users[phone] = u
	}
	c, e := code, expiresAt
	u.OTPCode, u.OTPExpiresAt = &c, &e
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ConsumeOTP(ctx context.Context, id int, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id && u.OTPCode != nil && *u.OTPCode == code {
			u.OTPCode, u.OTPExpiresAt = nil, nil
			u.IsVerified = true
			return nil
		}
	}
	return repositories.ErrOTPNotConsumed
}

func (r *memUserRepo) List(ctx context.Context, page repositories.Pagination) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeSMSSender struct {
	SendFunc func(ctx context.Context, phone, message string) error
	sent     []string
}

func (f *fakeSMSSender) Send(ctx context.Context, phone, message string) error {
	f.sent = append(f.sent, message)
	if f.SendFunc != nil {
		return f.SendFunc(ctx, phone, message)
	}
	return nil
}

type fakeFighterRepo struct {
	CreateFunc         func(ctx context.Context, exec repositories.SQLExecutor, fighter *models.Fighter) error
	GetByIDFunc        func(ctx context.Context, id int) (*models.Fighter, error)
	GetByUserIDFunc    func(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.Fighter, error)
	ListFunc           func(ctx context.Context, page repositories.Pagination) ([]models.Fighter, error)
	UpdateFunc         func(ctx context.Context, fighter *models.Fighter) error
	UpdatePhotoFunc    func(ctx context.Context, id int, photoURL string) error
	CountAllFunc       func(ctx context.Context) (int, error)
	CountVerifiedFunc  func(ctx context.Context) (int, error)
	CountAvailableFunc func(ctx context.Context) (int, error)
}

func (f *fakeFighterRepo) Create(ctx context.Context, exec repositories.SQLExecutor, fighter *models.Fighter) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, exec, fighter)
	}
	fighter.ID = 1
	return nil
}

// GetByID без заданной функции считает, что боец существует.
func (f *fakeFighterRepo) GetByID(ctx context.Context, id int) (*models.Fighter, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return &models.Fighter{ID: id}, nil
}

func (f *fakeFighterRepo) GetByUserID(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.Fighter, error) {
	if f.GetByUserIDFunc != nil {
		return f.GetByUserIDFunc(ctx, exec, userID)
	}
	return nil, repositories.ErrFighterNotFound
}

func (f *fakeFighterRepo) List(ctx context.Context, page repositories.Pagination) ([]models.Fighter, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, page)
	}
	return nil, nil
}

func (f *fakeFighterRepo) Update(ctx context.Context, fighter *models.Fighter) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, fighter)
	}
	return nil
}

func (f *fakeFighterRepo) UpdatePhoto(ctx context.Context, id int, photoURL string) error {
	if f.UpdatePhotoFunc != nil {
		return f.UpdatePhotoFunc(ctx, id, photoURL)
	}
	return nil
}

func (f *fakeFighterRepo) CountAll(ctx context.Context) (int, error) {
	if f.CountAllFunc != nil {
		return f.CountAllFunc(ctx)
	}
	return 0, nil
}

func (f *fakeFighterRepo) CountVerified(ctx context.Context) (int, error) {
	if f.CountVerifiedFunc != nil {
		return f.CountVerifiedFunc(ctx)
	}
	return 0, nil
}

func (f *fakeFighterRepo) CountAvailable(ctx context.Context) (int, error) {
	if f.CountAvailableFunc != nil {
		return f.CountAvailableFunc(ctx)
	}
	return 0, nil
}

type fakeEventRepo struct {
	CreateFunc                  func(ctx context.Context, event *models.Event) error
	GetByIDFunc                 func(ctx context.Context, id int) (*models.Event, error)
	UpdateFunc                  func(ctx context.Context, event *models.Event) error
	IncrementConfirmedPairsFunc func(ctx context.Context, exec repositories.SQLExecutor, eventID int) error
	CountFunc                   func(ctx context.Context) (int, error)
	SumConfirmedPairsFunc       func(ctx context.Context) (int, error)

	increments int
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, event)
	}
	event.ID = 1
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return &models.Event{ID: id, Name: "CAMMA 1", EventType: models.EventTypeTournament, EventDate: time.Now()}, nil
}

func (f *fakeEventRepo) List(ctx context.Context, page repositories.Pagination) ([]models.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, event)
	}
	return nil
}

func (f *fakeEventRepo) IncrementConfirmedPairs(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
	f.increments++
	if f.IncrementConfirmedPairsFunc != nil {
		return f.IncrementConfirmedPairsFunc(ctx, exec, eventID)
	}
	return nil
}

func (f *fakeEventRepo) Count(ctx context.Context) (int, error) {
	if f.CountFunc != nil {
		return f.CountFunc(ctx)
	}
	return 0, nil
}

func (f *fakeEventRepo) SumConfirmedPairs(ctx context.Context) (int, error) {
	if f.SumConfirmedPairsFunc != nil {
		return f.SumConfirmedPairsFunc(ctx)
	}
	return 0, nil
}

type fakeApplicationRepo struct {
	CreateFunc        func(ctx context.Context, app *models.EventApplication) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.EventApplication, error)
	UpdateFunc        func(ctx context.Context, app *models.EventApplication) error
	CountByStatusFunc func(ctx context.Context) (map[models.ApplicationStatus]int, error)
}

func (f *fakeApplicationRepo) Create(ctx context.Context, app *models.EventApplication) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, app)
	}
	app.ID = 1
	return nil
}

func (f *fakeApplicationRepo) GetByID(ctx context.Context, id int) (*models.EventApplication, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrApplicationNotFound
}

func (f *fakeApplicationRepo) ListByEvent(ctx context.Context, eventID int) ([]models.EventApplication, error) {
	return nil, nil
}

func (f *fakeApplicationRepo) Update(ctx context.Context, app *models.EventApplication) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, app)
	}
	return nil
}

func (f *fakeApplicationRepo) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int, error) {
	if f.CountByStatusFunc != nil {
		return f.CountByStatusFunc(ctx)
	}
	return map[models.ApplicationStatus]int{}, nil
}

type fakeFightRepo struct {
	CreateFunc       func(ctx context.Context, exec repositories.SQLExecutor, fight *models.Fight) error
	GetByIDFunc      func(ctx context.Context, id int) (*models.Fight, error)
	UpdateResultFunc func(ctx context.Context, fight *models.Fight) error

	created []models.Fight
}

func (f *fakeFightRepo) Create(ctx context.Context, exec repositories.SQLExecutor, fight *models.Fight) error {
	if f.CreateFunc != nil {
		if err := f.CreateFunc(ctx, exec, fight); err != nil {
			return err
		}
	}
	fight.ID = len(f.created) + 1
	f.created = append(f.created, *fight)
	return nil
}

func (f *fakeFightRepo) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrFightNotFound
}

func (f *fakeFightRepo) ListByEvent(ctx context.Context, eventID int) ([]models.Fight, error) {
	return f.created, nil
}

func (f *fakeFightRepo) UpdateResult(ctx context.Context, fight *models.Fight) error {
	if f.UpdateResultFunc != nil {
		return f.UpdateResultFunc(ctx, fight)
	}
	return nil
}

type fakeMediaRepo struct {
	CreateFunc func(ctx context.Context, media *models.MediaContent) error
}

func (f *fakeMediaRepo) Create(ctx context.Context, media *models.MediaContent) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, media)
	}
	media.ID = 1
	return nil
}

func (f *fakeMediaRepo) ListByEvent(ctx context.Context, eventID int) ([]models.MediaContent, error) {
	return nil, nil
}

type fakeContractRepo struct {
	CreateFunc        func(ctx context.Context, contract *models.Contract) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.Contract, error)
	UpdateFunc        func(ctx context.Context, contract *models.Contract) error
	CountByStatusFunc func(ctx context.Context, status models.ContractStatus) (int, error)
}

func (f *fakeContractRepo) Create(ctx context.Context, contract *models.Contract) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, contract)
	}
	contract.ID = 1
	return nil
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id int) (*models.Contract, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrContractNotFound
}

func (f *fakeContractRepo) List(ctx context.Context, page repositories.Pagination) ([]models.Contract, error) {
	return nil, nil
}

func (f *fakeContractRepo) Update(ctx context.Context, contract *models.Contract) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, contract)
	}
	return nil
}

func (f *fakeContractRepo) CountByStatus(ctx context.Context, status models.ContractStatus) (int, error) {
	if f.CountByStatusFunc != nil {
		return f.CountByStatusFunc(ctx, status)
	}
	return 0, nil
}

type fakeTaskRepo struct {
	CreateFunc    func(ctx context.Context, task *models.Task) error
	GetByIDFunc   func(ctx context.Context, id int) (*models.Task, error)
	ListFunc      func(ctx context.Context, assignedTo *int, page repositories.Pagination) ([]models.Task, error)
	UpdateFunc    func(ctx context.Context, task *models.Task) error
	DeleteFunc    func(ctx context.Context, id int) error
	CountOpenFunc func(ctx context.Context) (int, error)
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, task)
	}
	task.ID = 1
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id int) (*models.Task, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTaskNotFound
}

func (f *fakeTaskRepo) List(ctx context.Context, assignedTo *int, page repositories.Pagination) ([]models.Task, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, assignedTo, page)
	}
	return nil, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, task)
	}
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeTaskRepo) CountOpen(ctx context.Context) (int, error) {
	if f.CountOpenFunc != nil {
		return f.CountOpenFunc(ctx)
	}
	return 0, nil
}

type fakePromotionRepo struct {
	GetByIDFunc func(ctx context.Context, id int) (*models.Promotion, error)
}

func (f *fakePromotionRepo) Create(ctx context.Context, promotion *models.Promotion) error {
	promotion.ID = 1
	return nil
}

func (f *fakePromotionRepo) GetByID(ctx context.Context, id int) (*models.Promotion, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return &models.Promotion{ID: id}, nil
}

func (f *fakePromotionRepo) List(ctx context.Context, page repositories.Pagination) ([]models.Promotion, error) {
	return nil, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Publish(eventID int, messageType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messageType)
}

type fakeUploader struct {
	UploadFunc func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
	deleted    []string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, key, contentType, reader)
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

var testTime = time.Date(2024, 9, 1, 18, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
