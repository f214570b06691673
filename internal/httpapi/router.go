package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"bookly/internal/auth"
	"bookly/internal/models"
)

// Routes constructs the chi router containing all API endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := a.allowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Use(httprate.Limit(100, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	requireAccess := a.guard.Require(auth.AccessToken)
	requireRefresh := a.guard.Require(auth.RefreshToken)
	resolveUser := auth.ResolveUser(a.resolveIdentity)
	memberRoles := auth.RequireRoles(models.RoleUser, models.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", a.handleSignup)
			r.Post("/login", a.handleLogin)
			r.Get("/verify-email", a.handleVerifyEmail)
			r.Post("/reset-password-request", a.handleResetPasswordRequest)
			r.Post("/reset-password", a.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(requireRefresh)
				r.Get("/refresh-token", a.handleRefreshToken)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAccess)
				r.Post("/logout", a.handleLogout)

				r.Group(func(r chi.Router) {
					r.Use(resolveUser, memberRoles)
					r.Get("/me", a.handleMe)
				})
			})
		})

		r.Route("/books", func(r chi.Router) {
			r.Use(requireAccess)
			r.Get("/", a.handleListBooks)
			r.Post("/", a.handleCreateBook)
			r.Get("/{bookID}", a.handleGetBook)
			r.Patch("/{bookID}", a.handleUpdateBook)
			r.Delete("/{bookID}", a.handleDeleteBook)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(requireAccess, resolveUser, memberRoles)
			r.Post("/book/{bookID}", a.handleCreateReview)
		})
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
