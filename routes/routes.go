package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/Dosada05/camma-system/docs"
	"github.com/Dosada05/camma-system/handlers"
	"github.com/Dosada05/camma-system/middleware"
)

type Handlers struct {
	System       *handlers.SystemHandler
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Fighter      *handlers.FighterHandler
	Organization *handlers.OrganizationHandler
	Contract     *handlers.ContractHandler
	Event        *handlers.EventHandler
	Task         *handlers.TaskHandler
	Dashboard    *handlers.DashboardHandler
	WebSocket    *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret    string
	JWTAlgorithm string
	CORSOrigins  []string
	UploadDir    string
	Debug        bool
	// OTPRateLimit - запросов в секунду на IP для /auth/request-otp; 0 отключает лимит.
	OTPRateLimit rate.Limit
	OTPBurst     int
	// TrustProxy - доверять X-Forwarded-For/X-Real-IP. Включать только за своим прокси,
	// иначе клиент подменяет IP и обходит лимит OTP.
	TrustProxy bool
	Gatherer   prometheus.Gatherer
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chimw.RequestID)
	if opts.TrustProxy {
		router.Use(chimw.RealIP)
	}
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.Recoverer(opts.Logger))
	if opts.Registerer != nil {
		router.Use(middleware.NewHTTPMetrics(opts.Registerer).Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	router.Get("/", h.System.Root)
	router.Get("/health", h.System.Health)

	if opts.UploadDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.UploadDir)))
		router.Get("/static/*", fs.ServeHTTP)
	}
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.Debug {
		router.Get("/docs/doc.json", docs.Handler)
		router.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))
	}

	router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.JWTAlgorithm)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(otpLimiter(opts)...).Post("/request-otp", h.Auth.RequestOTP)
			r.Post("/login", h.Auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(chimw.Timeout(60 * time.Second))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.Me)
				r.Get("/", h.User.ListUsers)
			})

			r.Route("/fighters", func(r chi.Router) {
				r.Post("/", h.Fighter.CreateFighter)
				r.Get("/", h.Fighter.ListFighters)
				r.Post("/register-by-third-party", h.Fighter.RegisterByThirdParty)
				r.Route("/{fighterID}", func(r chi.Router) {
					r.Get("/", h.Fighter.GetFighter)
					r.Put("/", h.Fighter.UpdateFighter)
					r.Patch("/verification", h.Fighter.SetVerification)
					r.Post("/upload-photo", h.Fighter.UploadPhoto)
					r.Post("/achievements", h.Fighter.AddAchievement)
					r.Get("/achievements", h.Fighter.ListAchievements)
				})
			})

			r.Route("/clubs", func(r chi.Router) {
				r.Post("/", h.Organization.CreateClub())
				r.Get("/", h.Organization.ListClubs())
				r.Get("/{clubID}", h.Organization.GetClub())
			})
			r.Route("/promotions", func(r chi.Router) {
				r.Post("/", h.Organization.CreatePromotion())
				r.Get("/", h.Organization.ListPromotions())
				r.Get("/{promotionID}", h.Organization.GetPromotion())
			})
			r.Route("/trainers", func(r chi.Router) {
				r.Post("/", h.Organization.CreateTrainer())
				r.Get("/", h.Organization.ListTrainers())
				r.Get("/{trainerID}", h.Organization.GetTrainer())
			})
			r.Route("/managers", func(r chi.Router) {
				r.Post("/", h.Organization.CreateManager())
				r.Get("/", h.Organization.ListManagers())
				r.Get("/{managerID}", h.Organization.GetManager())
			})

			r.Route("/contracts", func(r chi.Router) {
				r.Post("/", h.Contract.CreateContract)
				r.Get("/", h.Contract.ListContracts)
				r.Post("/extend", h.Contract.ExtendContract)
				r.Get("/{contractID}", h.Contract.GetContract)
				r.Patch("/{contractID}", h.Contract.UpdateContract)
			})

			r.Route("/events", func(r chi.Router) {
				r.Post("/", h.Event.CreateEvent)
				r.Get("/", h.Event.ListEvents)
				r.Route("/{eventID}", func(r chi.Router) {
					r.Get("/", h.Event.GetEvent)
					r.Put("/", h.Event.UpdateEvent)

					r.Post("/applications", h.Event.CreateApplication)
					r.Get("/applications", h.Event.ListApplications)
					r.Patch("/applications/{applicationID}", h.Event.UpdateApplication)

					r.Post("/fights", h.Event.CreateFight)
					r.Get("/fights", h.Event.ListFights)
					r.Patch("/fights/{fightID}/result", h.Event.RecordFightResult)
					r.Post("/create-pair", h.Event.CreateFightPair)

					r.Post("/media", h.Event.UploadMedia)
					r.Get("/media", h.Event.ListMedia)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", h.Task.CreateTask)
				r.Get("/", h.Task.ListTasks)
				r.Get("/{taskID}", h.Task.GetTask)
				r.Put("/{taskID}", h.Task.UpdateTask)
				r.Delete("/{taskID}", h.Task.DeleteTask)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", h.Dashboard.GetStats)
				r.Get("/matchmaking", h.Dashboard.GetMatchmakingStats)
			})
		})
	})
}

func otpLimiter(opts Options) []func(http.Handler) http.Handler {
	if opts.OTPRateLimit <= 0 {
		return nil
	}
	return []func(http.Handler) http.Handler{middleware.NewIPRateLimiter(opts.OTPRateLimit, opts.OTPBurst).Middleware}
}
