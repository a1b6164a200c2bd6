package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/camma-system/middleware"
	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
	"github.com/Dosada05/camma-system/services"
)

type fakeAuthService struct {
	RequestOTPFunc func(ctx context.Context, phone string) (*services.OTPResponse, error)
	LoginFunc      func(ctx context.Context, input services.LoginInput) (*models.Token, error)
}

func (f *fakeAuthService) RequestOTP(ctx context.Context, phone string) (*services.OTPResponse, error) {
	return f.RequestOTPFunc(ctx, phone)
}

func (f *fakeAuthService) Login(ctx context.Context, input services.LoginInput) (*models.Token, error) {
	return f.LoginFunc(ctx, input)
}

// fakeEventService реализует только то, что нужно тестам; остальные методы паникуют.
type fakeEventService struct {
	services.EventService
	GetEventFunc        func(ctx context.Context, id int) (*models.Event, error)
	CreateFightFunc     func(ctx context.Context, eventID int, input services.CreateFightInput) (*models.Fight, error)
	CreateFightPairFunc func(ctx context.Context, eventID int, input services.CreateFightPairInput) (int, error)
	UploadMediaFunc     func(ctx context.Context, eventID, userID int, input services.MediaInput, filename string, size int64, file io.Reader) (*models.MediaContent, error)
	ListEventsFunc      func(ctx context.Context, page repositories.Pagination) ([]models.Event, error)
}

func (f *fakeEventService) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	return f.GetEventFunc(ctx, id)
}

func (f *fakeEventService) CreateFight(ctx context.Context, eventID int, input services.CreateFightInput) (*models.Fight, error) {
	return f.CreateFightFunc(ctx, eventID, input)
}

func (f *fakeEventService) CreateFightPair(ctx context.Context, eventID int, input services.CreateFightPairInput) (int, error) {
	return f.CreateFightPairFunc(ctx, eventID, input)
}

func (f *fakeEventService) UploadMedia(ctx context.Context, eventID, userID int, input services.MediaInput, filename string, size int64, file io.Reader) (*models.MediaContent, error) {
	return f.UploadMediaFunc(ctx, eventID, userID, input, filename, size, file)
}

func (f *fakeEventService) ListEvents(ctx context.Context, page repositories.Pagination) ([]models.Event, error) {
	return f.ListEventsFunc(ctx, page)
}

type fakeTaskService struct {
	services.TaskService
	DeleteTaskFunc func(ctx context.Context, id, currentUserID int) error
	ListTasksFunc  func(ctx context.Context, currentUserID int, assignedToMe bool, page repositories.Pagination) ([]models.Task, error)
}

func (f *fakeTaskService) DeleteTask(ctx context.Context, id, currentUserID int) error {
	return f.DeleteTaskFunc(ctx, id, currentUserID)
}

func (f *fakeTaskService) ListTasks(ctx context.Context, currentUserID int, assignedToMe bool, page repositories.Pagination) ([]models.Task, error) {
	return f.ListTasksFunc(ctx, currentUserID, assignedToMe, page)
}

// serve прогоняет запрос через chi, чтобы URL-параметры попали в контекст.
// userID > 0 кладёт в контекст claims, как это делает middleware.Authenticate.
func serve(method, pattern, target string, body io.Reader, userID int, handler http.HandlerFunc, headers ...string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, handler)

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if userID > 0 {
		req = req.WithContext(middleware.WithClaims(req.Context(), jwt.MapClaims{"user_id": float64(userID)}))
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }
