package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"social-platform-backend/internal/config"
	"social-platform-backend/internal/usecase"
)

// Server is the HTTP layer: public payment callbacks plus the authenticated
// user/plan/post API.
type Server struct {
	paymentUC usecase.PaymentUseCase
	planUC    usecase.PlanUseCase
	subUC     usecase.SubscriptionUseCase
	postUC    usecase.PostUseCase
	userUC    usecase.UserUseCase
	auth      *AuthManager
	// callbackBase is scheme://host of the configured public callback URL;
	// signature payloads are rebuilt from it, never from the Host header.
	callbackBase string
	log          *zerolog.Logger
	server       *http.Server
}

func NewServer(
	cfg *config.Config,
	paymentUC usecase.PaymentUseCase,
	planUC usecase.PlanUseCase,
	subUC usecase.SubscriptionUseCase,
	postUC usecase.PostUseCase,
	userUC usecase.UserUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) (*Server, error) {
	base, err := url.Parse(cfg.Payment.CallbackURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid payment callback_url %q", cfg.Payment.CallbackURL)
	}

	s := &Server{
		paymentUC:    paymentUC,
		planUC:       planUC,
		subUC:        subUC,
		postUC:       postUC,
		userUC:       userUC,
		auth:         auth,
		callbackBase: base.Scheme + "://" + base.Host,
		log:          logger,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID(), Recover(s.log), RequestLog(s.log), Timeout(30*time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Gateway-facing callbacks: gated by signature, not by session.
		r.Get("/users/callback", s.handleAccountCallback)
		r.Get("/users/callbacksub", s.handleSubscriptionCallback)

		// Public profile reads.
		r.Get("/users/{id}", s.handleUserGet)
		r.Get("/users/{id}/verified", s.handleUserVerified)
		r.Get("/users/{id}/plan", s.handlePlanGet)
		r.Get("/users/{id}/followers", s.handleFollowers)
		r.Get("/users/{id}/following", s.handleFollowing)

		// Session-holder routes.
		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireAuth)

			r.Get("/users/pay", s.handlePay)
			r.Get("/users/subpay", s.handleSubPay)
			r.Put("/users/plan", s.handlePlanUpdate)
			r.Put("/users/biography", s.handleBiographyUpdate)
			r.Get("/users/subscriptions", s.handleSubscriptionList)
			r.Get("/users/{id}/subscribers", s.handleSubscriberList)
			r.Get("/users/{id}/subscription", s.handleSubscriptionStatus)
			r.Post("/users/{id}/follow", s.handleFollow)
			r.Delete("/users/{id}/follow", s.handleUnfollow)
			r.Get("/users/{id}/posts", s.handleProfilePosts)

			r.Post("/posts", s.handlePostCreate)
			r.Get("/posts", s.handleFeed)
			r.Get("/posts/liked", s.handleLikedPosts)
			r.Get("/posts/{id}", s.handlePostGet)
			r.Put("/posts/{id}", s.handlePostUpdate)
			r.Delete("/posts/{id}", s.handlePostDelete)
			r.Post("/posts/{id}/like", s.reactHandler("like", true))
			r.Delete("/posts/{id}/like", s.reactHandler("like", false))
			r.Post("/posts/{id}/dislike", s.reactHandler("dislike", true))
			r.Delete("/posts/{id}/dislike", s.reactHandler("dislike", false))
		})
	})
	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
