package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/example/anihub/internal/blob"
	"github.com/example/anihub/internal/handlers"
	"github.com/example/anihub/internal/platform/analytics"
	"github.com/example/anihub/internal/platform/auth"
	"github.com/example/anihub/internal/platform/config"
	"github.com/example/anihub/internal/platform/db"
	"github.com/example/anihub/internal/platform/httpserver"
	"github.com/example/anihub/internal/platform/logging"
	"github.com/example/anihub/internal/platform/natsconn"
	"github.com/example/anihub/internal/platform/run"
	"github.com/example/anihub/internal/platform/signing"
	"github.com/example/anihub/internal/stats"
	"github.com/example/anihub/internal/store"
	"github.com/example/anihub/internal/tokens"
)

const streamPath = "/v1/stream"

// stores bundles every persistence backend behind one selection point.
type stores struct {
	Users        store.UserStore
	Animes       store.AnimeStore
	Episodes     store.EpisodeStore
	Reviews      store.ReviewStore
	Comments     store.CommentStore
	Watchlist    store.WatchlistStore
	HomeSections store.HomeSectionStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	st, pool := initStores(cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	verifier := auth.JWTVerifier{Secret: []byte(cfg.Auth.JWTSecret)}
	tokenSvc := tokens.Service{
		Secret:         []byte(cfg.Auth.JWTSecret),
		AccessTokenTTL: time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
	}
	signer := signing.New(cfg.Auth.JWTSecret)
	blobs := blob.NewMemoryStore()

	// NATS is optional: a nil JetStream context makes the publisher a no-op.
	events := analytics.New(nil, log)
	var nc interface{ Close() }
	if cfg.NATSURL != "" {
		conn, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
		if err != nil {
			log.Warn("nats unavailable, activity events disabled", zap.Error(err))
		} else if js, err := natsconn.JetStream(conn); err != nil {
			log.Warn("jetstream unavailable, activity events disabled", zap.Error(err))
			conn.Close()
		} else {
			events = analytics.New(js, log)
			nc = conn
		}
	}
	if nc != nil {
		defer nc.Close()
	}

	// Aggregator components: the only writers of the derived counters.
	userStats := stats.NewUserStats(st.Users)
	ratings := stats.NewRatingAggregator(st.Animes)
	tracker := stats.NewWatchlistTracker(userStats)
	reviewVotes := stats.NewVoteLedger[store.ReviewVote](stats.ReviewVoteTarget{Reviews: st.Reviews}, userStats)
	commentLikes := stats.NewVoteLedger[store.CommentLike](stats.CommentLikeTarget{Comments: st.Comments}, userStats)

	users := handlers.Users{
		Store:          st.Users,
		Tokens:         tokenSvc,
		Blobs:          blobs,
		Events:         events,
		MinPasswordLen: cfg.Auth.PasswordMinLen,
	}
	animes := handlers.Animes{Store: st.Animes, Events: events}
	episodes := handlers.Episodes{
		Store:      st.Episodes,
		Animes:     st.Animes,
		Blobs:      blobs,
		Signer:     signer,
		Events:     events,
		StreamPath: streamPath,
	}
	reviews := handlers.Reviews{
		Store:   st.Reviews,
		Animes:  st.Animes,
		Ratings: ratings,
		Users:   userStats,
		Votes:   reviewVotes,
		Events:  events,
	}
	comments := handlers.Comments{
		Store:    st.Comments,
		Episodes: st.Episodes,
		Users:    st.Users,
		Stats:    userStats,
		Likes:    commentLikes,
		Events:   events,
	}
	watchlist := handlers.Watchlist{
		Store:   st.Watchlist,
		Animes:  st.Animes,
		Users:   st.Users,
		Tracker: tracker,
		Events:  events,
	}
	home := handlers.HomeSections{Store: st.HomeSections, Animes: st.Animes}

	readyFunc := func() error { return nil }
	if pool != nil {
		readyFunc = func() error { return pool.Ping(context.Background()) }
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: readyFunc, Logger: log})

	r.Post("/v1/users/signup", users.Signup)
	r.Post("/v1/users/login", users.Login)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Patch("/v1/users/update-my-password", users.UpdatePassword)
		r.Put("/v1/users/profile-picture", users.ProfilePicture)
		r.Get("/v1/users/me/stats", users.MyStats)
	})

	r.Get("/v1/animes", animes.List)
	r.Get("/v1/animes/{animeId}", animes.Get)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier), auth.RequireAdmin)
		r.Post("/v1/animes", animes.Create)
		r.Patch("/v1/animes/{animeId}", animes.Update)
	})

	r.Get("/v1/animes/{animeId}/reviews", reviews.List)
	r.Get("/v1/animes/{animeId}/reviews/{reviewId}", reviews.Get)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/v1/animes/{animeId}/reviews", reviews.Create)
		r.Get("/v1/animes/{animeId}/reviews/my-review", reviews.MyReview)
		r.Patch("/v1/animes/{animeId}/reviews/my-review", reviews.UpdateMyReview)
		r.Delete("/v1/animes/{animeId}/reviews/my-review", reviews.DeleteMyReview)
		r.Post("/v1/animes/{animeId}/reviews/{reviewId}/helpful", reviews.Helpful)
		r.Post("/v1/animes/{animeId}/reviews/{reviewId}/not-helpful", reviews.NotHelpful)
	})

	r.With(auth.OptionalUser(verifier)).Get("/v1/animes/{animeId}/episodes", episodes.List)
	r.Get(streamPath, episodes.Stream)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier), auth.RequireAdmin)
		r.Post("/v1/animes/{animeId}/episodes", episodes.Create)
		r.Patch("/v1/animes/{animeId}/episodes/{episodeId}", episodes.Update)
		r.Delete("/v1/animes/{animeId}/episodes/{episodeId}", episodes.Delete)
		r.Post("/v1/animes/{animeId}/episodes/{episodeId}/video", episodes.UploadVideo)
	})

	r.Get("/v1/episodes/{episodeId}/comments", comments.List)
	r.Get("/v1/episodes/{episodeId}/comments/{commentId}/replies", comments.Replies)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/v1/episodes/{episodeId}/comments", comments.Create)
		r.Patch("/v1/episodes/{episodeId}/comments/{commentId}", comments.Update)
		r.Delete("/v1/episodes/{episodeId}/comments/{commentId}", comments.Delete)
		r.Post("/v1/episodes/{episodeId}/comments/{commentId}/like", comments.Like)
		r.Post("/v1/episodes/{episodeId}/comments/{commentId}/dislike", comments.Dislike)
		r.Get("/v1/episodes/{episodeId}/comments/{commentId}/my-reaction", comments.MyReaction)
	})

	r.Get("/v1/watchlist", watchlist.Public)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Get("/v1/watchlist/my-watchlist", watchlist.My)
		r.Post("/v1/watchlist", watchlist.Create)
		r.Patch("/v1/watchlist/{entryId}", watchlist.SetStatus)
		r.Delete("/v1/watchlist/{entryId}", watchlist.Delete)
	})

	r.Get("/v1/home-sections", home.List)
	r.Get("/v1/home-sections/{sectionId}", home.Get)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier), auth.RequireAdmin)
		r.Post("/v1/home-sections", home.Create)
		r.Patch("/v1/home-sections/{sectionId}", home.Update)
		r.Delete("/v1/home-sections/{sectionId}", home.Delete)
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(
		func(ctx context.Context) error { return srv.Start(log) },
		srv.Shutdown,
	)

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the persistence backend. In production
// (APP_ENV=production) a working Postgres connection is required; otherwise
// a missing or unreachable database falls back to in-memory stores.
func initStores(cfg config.AppConfig, log *zap.Logger) (stores, *pgxpool.Pool) {
	isProd := strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "production")

	memory := func() stores {
		return stores{
			Users:        store.NewInMemoryUserStore(),
			Animes:       store.NewInMemoryAnimeStore(),
			Episodes:     store.NewInMemoryEpisodeStore(),
			Reviews:      store.NewInMemoryReviewStore(),
			Comments:     store.NewInMemoryCommentStore(),
			Watchlist:    store.NewInMemoryWatchlistStore(),
			HomeSections: store.NewInMemoryHomeSectionStore(),
		}
	}

	if cfg.DatabaseURL == "" {
		if isProd {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			os.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory stores (development only)")
		return memory(), nil
	}

	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		if isProd {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			os.Exit(1)
		}
		log.Warn("postgres unavailable, falling back to in-memory stores", zap.Error(err))
		return memory(), nil
	}

	log.Info("stores: postgres")
	return stores{
		Users:        store.NewPostgresUserStore(pool),
		Animes:       store.NewPostgresAnimeStore(pool),
		Episodes:     store.NewPostgresEpisodeStore(pool),
		Reviews:      store.NewPostgresReviewStore(pool),
		Comments:     store.NewPostgresCommentStore(pool),
		Watchlist:    store.NewPostgresWatchlistStore(pool),
		HomeSections: store.NewPostgresHomeSectionStore(pool),
	}, pool
}
