package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ysaito/personal-calendar/internal/database"
	"github.com/ysaito/personal-calendar/internal/model"
	"github.com/ysaito/personal-calendar/internal/pkg/oauth"
	"go.uber.org/zap"
)

type Api struct {
	handler    http.Handler
	logger     *zap.SugaredLogger
	randSource io.Reader

	jwts          jwtManager
	tokenParser   tokenParser
	refreshTokens refreshTokenRepository

	db     database.PGX
	users  userRepository
	events eventsGateway
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
	GetIdFromToken(token string) (int64, error)
}

type tokenParser interface {
	GetInfoGoogle(ctx context.Context, authCode string) (*oauth.GoogleInfo, error)
}

type refreshTokenRepository interface {
	Add(ctx context.Context, session string, id int64) error
	Get(ctx context.Context, session string) (int64, error)
	Refresh(ctx context.Context, old, new string) error
	Delete(ctx context.Context, session string) error
}

type userRepository interface {
	CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate) (int64, error)
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
	GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, q database.Queryable, user *model.User) error
}

type eventsGateway interface {
	List(ctx context.Context, uid string) ([]*model.Event, error)
	Create(ctx context.Context, uid string, event *model.EventCreate) (string, error)
	Update(ctx context.Context, uid, id string, event *model.EventCreate) error
	Move(ctx context.Context, uid, id string, move *model.EventMove) error
	Remove(ctx context.Context, uid, id string) error
}

func NewApi(
	logger *zap.SugaredLogger,
	randSource io.Reader,
	jwts jwtManager,
	tokenParser tokenParser,
	refreshTokens refreshTokenRepository,
	db database.PGX,
	users userRepository,
	events eventsGateway,
) (*Api, error) {
	a := &Api{
		logger:        logger,
		randSource:    randSource,
		jwts:          jwts,
		tokenParser:   tokenParser,
		refreshTokens: refreshTokens,
		db:            db,
		users:         users,
		events:        events,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin/google", a.signInGoogleHandler)
		r.Post("/refresh", a.refreshTokenHandler)
		r.Post("/logout", a.logoutUserHandler)
	})

	r.With(a.auth).Route("/", func(r chi.Router) {
		r.With(a.userCtx).Route("/user", func(r chi.Router) {
			r.Get("/", a.getUserHandler)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", a.listEventsHandler)
			r.Post("/", a.createEventHandler)
			r.Put("/{eventID}", a.updateEventHandler)
			r.Post("/{eventID}/move", a.moveEventHandler)
			r.Delete("/{eventID}", a.deleteEventHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
