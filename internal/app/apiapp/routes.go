package apiapp

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	feedsvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/feed"
	matchessvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/matches"
	mediasvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/media"
	messagesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/messages"
	profilesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/profiles"
	swipesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/swipes"
	"github.com/yash0834/lovelane-cloudinary-api/internal/transport/http/handlers"
)

const defaultRequestTimeout = 30 * time.Second

type Dependencies struct {
	ProfileService *profilesvc.Service
	FeedService    *feedsvc.Service
	SwipeService   *swipesvc.Service
	MatchService   *matchessvc.Service
	MessageService *messagesvc.Service
	MediaService   *mediasvc.Service
	Events         handlers.EventSubscriber
	PostgresPinger handlers.Pinger
	RedisPinger    handlers.Pinger
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.PostgresPinger, deps.RedisPinger)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	eventsHandler := handlers.NewEventsHandler(deps.ProfileService, deps.Events, deps.AllowedOrigins, deps.Logger)

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r.Get("/healthz", healthHandler.Handle)

	r.Route("/api", func(r chi.Router) {
		// Streams are long-lived and stay outside the request timeout.
		r.Get("/users/{id}/events", eventsHandler.Handle)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(timeout))

			r.Get("/health", healthHandler.Handle)

			r.Post("/users", profileHandler.Create)
			r.Get("/users/email/{email}", profileHandler.GetByEmail)
			r.Get("/users/{id}", profileHandler.Get)
			r.Patch("/users/{id}", profileHandler.Update)
			r.Put("/users/{id}/last-active", profileHandler.TouchLastActive)
			r.Get("/users/{id}/potential-matches", feedHandler.PotentialMatches)
			r.Get("/users/{id}/swipes", swipeHandler.ListForUser)
			r.Get("/users/{id}/matches", matchesHandler.ListForUser)

			r.Post("/swipes", swipeHandler.Create)

			r.Get("/matches/{id}", matchesHandler.Get)
			r.Post("/matches/{id}/unmatch", matchesHandler.Unmatch)
			r.Get("/matches/{id}/messages", messagesHandler.ListForMatch)

			r.Post("/messages", messagesHandler.Create)
			r.Patch("/messages/{id}/read", messagesHandler.MarkRead)

			r.Post("/upload-image", mediaHandler.UploadImage)
		})
	})
}
