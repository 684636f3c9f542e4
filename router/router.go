package router

import (
	"net/http"

	"doctrack/internal/auth"
	docHandler "doctrack/internal/document"
	"doctrack/internal/document/repository"
	"doctrack/internal/document/service"
	"doctrack/internal/feedback"
	"doctrack/middleware"
	"doctrack/pkg/metrics"
	"doctrack/pkg/response"
	"doctrack/pkg/session"
	"doctrack/socket"
	"doctrack/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Backend        store.Backend
	Hub            *socket.Hub      // nil disables the change feed
	Sessions       *session.Manager // nil disables session tokens
	EnforceSession bool
	CORSOrigin     string
	Metrics        *metrics.Metrics
}

func Setup(opts Options) http.Handler {
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	users := store.NewEntity(opts.Backend, store.UserEntity)
	docs := store.NewEntity(opts.Backend, store.DocumentEntity)
	feedbacks := store.NewEntity(opts.Backend, store.FeedbackEntity)

	var issuer auth.TokenIssuer
	var verifier middleware.TokenVerifier
	if opts.Sessions != nil {
		issuer = opts.Sessions
		verifier = opts.Sessions
	}

	var events service.Publisher
	if opts.Hub != nil {
		events = opts.Hub
	}

	authHandler := auth.NewHandler(auth.NewService(users, issuer, m))
	docRepo := repository.NewDocumentRepository(docs)
	docService := service.NewDocumentService(docRepo, events, m)
	documents := docHandler.NewDocumentHandler(docService)
	feedbackHandler := feedback.NewHandler(feedback.NewService(feedbacks, users, m))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(m))
	r.Use(middleware.CORSMiddleware(opts.CORSOrigin))

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	authHandler.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(verifier, opts.EnforceSession))
		documents.Register(r)
		feedbackHandler.Register(r)

		if opts.Hub != nil {
			r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
				socket.ServeWs(opts.Hub, w, r)
			})
		}
	})

	return r
}
