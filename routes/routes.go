package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/matchops/cup-console/handlers"
	"github.com/matchops/cup-console/middleware"
	"github.com/matchops/cup-console/models"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Match      *handlers.MatchHandler
	Bracket    *handlers.BracketHandler
	Donation   *handlers.DonationHandler
	Prediction *handlers.PredictionHandler
	Photo      *handlers.PhotoHandler
	News       *handlers.NewsHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	operatorOnly := middleware.Authorize(models.RoleAdmin, models.RoleOperator)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	publicSubmit := middleware.RateLimit(rate.Limit(1), 5)

	router.Post("/auth/login", h.Auth.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/teams", h.Team.List)
		r.Get("/{tournamentID}/matches", h.Match.List)
		r.Get("/{tournamentID}/standings", h.Bracket.Standings)
		r.Get("/{tournamentID}/news", h.News.List)
		r.Get("/{tournamentID}/donations", h.Donation.Board)
		r.Get("/{tournamentID}/photos", h.Photo.List)

		// Public submissions, rate limited per IP.
		r.Group(func(r chi.Router) {
			r.Use(publicSubmit)
			r.Post("/{tournamentID}/teams", h.Team.Register)
			r.Post("/{tournamentID}/donations", h.Donation.Create)
			r.Post("/{tournamentID}/photos", h.Photo.Upload)
		})

		// Operator console.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(operatorOnly)

			r.Post("/", h.Tournament.Create)
			r.Patch("/{tournamentID}/status", h.Tournament.UpdateStatus)

			r.Route("/{tournamentID}/bracket", func(r chi.Router) {
				r.Get("/", h.Bracket.View)
				r.Get("/eligibility", h.Bracket.Eligibility)
				r.Post("/assign", h.Bracket.Assign)
				r.Post("/clear", h.Bracket.Clear)
				r.Post("/reschedule", h.Bracket.Reschedule)
				r.Post("/walkover", h.Bracket.Walkover)
				r.Post("/save", h.Bracket.Save)
				r.Post("/refresh", h.Bracket.Refresh)
				r.Put("/size", h.Bracket.SetSize)
			})

			r.Post("/{tournamentID}/news", h.News.Create)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(operatorOnly)
			r.Post("/{teamID}/review", h.Team.Review)
			r.Delete("/{teamID}", h.Team.Delete)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.Get)
		r.Get("/{matchID}/predictions", h.Prediction.Summary)

		r.With(publicSubmit).Post("/{matchID}/predictions", h.Prediction.Submit)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(operatorOnly)
			r.Post("/{matchID}/result", h.Match.RecordScore)
		})
	})

	router.Route("/news", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(operatorOnly)
		r.Put("/{postID}", h.News.Update)
		r.Delete("/{postID}", h.News.Delete)
	})

	router.Route("/photos", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(operatorOnly)
		r.Delete("/{photoID}", h.Photo.Delete)
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)
		r.Post("/", h.Auth.CreateUser)
	})

	if h.WebSocket != nil {
		router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return router
}
