package routes

import (
	"net/http"

	"github.com/Dosada05/league-engine/handlers"
	"github.com/Dosada05/league-engine/middleware"
	"github.com/Dosada05/league-engine/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/league-engine/docs"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Metrics        http.Handler
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	adminHandler *handlers.AdminHandler,
	statsHandler *handlers.StatsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// Публичные маршруты чтения
	router.Get("/tournaments/{tournamentID}", tournamentHandler.GetTournament)
	router.Get("/stages/{stageID}", tournamentHandler.GetStage)
	router.Get("/stages/{stageID}/standings", tournamentHandler.GetStandings)
	router.Get("/stages/{stageID}/bracket", tournamentHandler.GetBracket)
	router.Get("/stages/{stageID}/head-to-head", statsHandler.GetHeadToHead)
	router.Get("/matches/{matchID}", matchHandler.GetMatch)
	router.Get("/players/rating", statsHandler.GetRating)
	router.Get("/players/{userID}/stats", statsHandler.GetPlayerStats)

	// Участники матчей
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))

		r.Post("/matches/{matchID}/reports", matchHandler.SubmitReport)
		r.Post("/matches/{matchID}/attachments", matchHandler.UploadAttachment)
		r.Post("/reports/{reportID}/confirm", matchHandler.ConfirmReport)
		r.Post("/reports/{reportID}/dispute", matchHandler.DisputeReport)
		r.Post("/reports/{reportID}/reject", matchHandler.DisputeReport)
		r.Get("/me/matches", statsHandler.GetMyMatches)
	})

	// Администрирование
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.RequireRole(models.RoleAdmin))

		r.Post("/tournaments/{tournamentID}/stages", adminHandler.CreateStage)
		r.Post("/tournaments/{tournamentID}/playoff", adminHandler.GeneratePlayoff)
		r.Post("/stages/{stageID}/round-robin", adminHandler.GenerateRoundRobin)
		r.Post("/stages/{stageID}/recalculate", adminHandler.RecalculateStandings)
		r.Post("/stages/{stageID}/advance", adminHandler.AdvanceStage)
		r.Put("/matches/{matchID}", adminHandler.UpdateMatch)
		r.Post("/matches/{matchID}/reports/{reportID}/confirm", adminHandler.ConfirmReport)
		r.Delete("/matches/{matchID}/reports/{reportID}", adminHandler.DeleteReport)
		r.Post("/auto-confirm", adminHandler.RunAutoConfirm)
	})
}
