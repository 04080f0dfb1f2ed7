package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/him1art1-dotcom/had-sub003/internal/handler/http/middleware"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	studentHandler StudentHandler,
	attendanceHandler AttendanceHandler,
	syncHandler SyncHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hader-sync"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-Id"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Kiosk endpoints: open inside the school network.
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", attendanceHandler.CheckIn)
			r.Get("/", attendanceHandler.GetDay)
		})

		// Live sync events for dashboards.
		r.Get("/sync/events", syncHandler.Events)

		// Report consumer portal.
		r.Route("/report", func(r chi.Router) {
			r.Get("/", reportHandler.GetCached)
			r.Post("/fetch", reportHandler.Fetch)
			r.Get("/csv", reportHandler.ExportCSV)
			r.Post("/leave-requests", reportHandler.SubmitLeaveRequest)
			r.Get("/preferences", reportHandler.GetPreferences)
			r.Put("/preferences", reportHandler.UpdatePreferences)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/students", func(r chi.Router) {
				r.Get("/", studentHandler.List)
				r.Get("/{id}", studentHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", studentHandler.Create)
					r.Put("/{id}", studentHandler.Update)
					r.Delete("/{id}", studentHandler.Delete)
				})
			})

			r.Route("/sync", func(r chi.Router) {
				r.Get("/state", syncHandler.GetState)
				r.Post("/", syncHandler.TriggerSync)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/settings", syncHandler.GetSettings)
					r.Put("/settings", syncHandler.UpdateSettings)
				})
			})
		})
	})
	return r
}
