package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dykim-dev/matchboard/handlers"
	"github.com/dykim-dev/matchboard/middleware"
	"github.com/dykim-dev/matchboard/models"
)

// SetupRoutes mounts the public API, the authenticated /api group, and the
// admin-only management endpoints.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	tournamentHandler *handlers.TournamentHandler,
	finalsHandler *handlers.FinalsHandler,
	leagueHandler *handlers.LeagueHandler,
	noticeHandler *handlers.NoticeHandler,
	teamHandler *handlers.TeamHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	// Public endpoints
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/players", playerHandler.List)
	router.Get("/players/{playerID}", playerHandler.Get)
	router.Get("/players/{playerID}/history", playerHandler.RatingHistory)

	router.Get("/matches", matchHandler.List)
	router.Get("/matches/{matchID}", matchHandler.Get)

	router.Get("/tournaments", tournamentHandler.List)
	router.Get("/tournaments/{tournamentID}", tournamentHandler.Get)

	router.Get("/brackets/{bracketID}", finalsHandler.Get)

	router.Get("/leagues/blocks", leagueHandler.ListBlocks)
	router.Get("/leagues/{blockID}/standings", leagueHandler.Standings)

	router.Get("/notices", noticeHandler.List)
	router.Get("/notices/{noticeID}", noticeHandler.Get)

	router.Get("/teams", teamHandler.List)
	router.Get("/teams/{teamID}", teamHandler.Get)

	router.Get("/ws/brackets/{bracketID}", webSocketHandler.ServeBracket)

	// Authenticated endpoints
	router.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/matches", matchHandler.Create)
		r.Post("/players/{playerID}/avatar", playerHandler.UploadAvatar)

		// Admin-only management
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/dashboard", dashboardHandler.Stats)

			r.Post("/finals", finalsHandler.Create)
			r.Post("/finals/slot", finalsHandler.AssignSlot)
			r.Post("/finals/report", finalsHandler.ReportResult)
			r.Patch("/finals/{bracketID}/config", finalsHandler.UpdateConfig)

			r.Post("/leagues/blocks", leagueHandler.CreateBlock)
			r.Post("/leagues/matches", leagueHandler.RecordMatch)
			r.Post("/leagues/{blockID}/winner", leagueHandler.SetWinner)

			r.Post("/tournaments", tournamentHandler.Create)
			r.Patch("/tournaments/{tournamentID}", tournamentHandler.Update)

			r.Post("/notices", noticeHandler.Create)
			r.Put("/notices/{noticeID}", noticeHandler.Update)
			r.Delete("/notices/{noticeID}", noticeHandler.Delete)
			r.Post("/notices/{noticeID}/image", noticeHandler.UploadImage)

			r.Post("/teams", teamHandler.Create)
			r.Delete("/teams/{teamID}", teamHandler.Delete)
			r.Post("/teams/{teamID}/members", teamHandler.AddMember)
			r.Delete("/teams/{teamID}/members/{playerID}", teamHandler.RemoveMember)
		})
	})
}
