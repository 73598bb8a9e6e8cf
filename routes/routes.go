package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
)

func SetupRoutes(
	router chi.Router,
	logger *slog.Logger,
	allowedOrigins []string,
	postHandler *handlers.PostHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler http.Handler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	router.Method(http.MethodGet, "/healthz", healthHandler)

	router.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListHandler)
		r.Post("/", postHandler.CreateHandler)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListPlayersHandler)
		r.Post("/", tournamentHandler.RegisterPlayerHandler)
		r.Delete("/", tournamentHandler.DeletePlayersHandler)
		r.Get("/count", tournamentHandler.CountPlayersHandler)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListMatchesHandler)
		r.Post("/", tournamentHandler.ReportMatchHandler)
		r.Delete("/", tournamentHandler.DeleteMatchesHandler)
	})

	router.Delete("/tournament", tournamentHandler.ResetHandler)
	router.Get("/standings", tournamentHandler.StandingsHandler)
	router.Post("/standings/export", tournamentHandler.ExportStandingsHandler)
	router.Get("/pairings", tournamentHandler.PairingsHandler)

	router.Get("/ws/standings", webSocketHandler.ServeWs)
}
