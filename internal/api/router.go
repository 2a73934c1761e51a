package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/omara/internal/closet"
	"github.com/erazemk/omara/internal/metrics"
)

// RouterConfig holds what the API router needs.
type RouterConfig struct {
	DB          *sql.DB
	Service     *closet.Service
	JWTSecret   string
	TokenTTL    time.Duration
	AllowSignup bool

	// Metrics exposes GET /metrics when set.
	Metrics bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{
		DB:          cfg.DB,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		AllowSignup: cfg.AllowSignup,
	}
	uploadsHandler := &UploadsHandler{Svc: cfg.Service}
	locationsHandler := &LocationsHandler{Svc: cfg.Service}
	itemsHandler := &ItemsHandler{Svc: cfg.Service}
	piecesHandler := &PiecesHandler{Svc: cfg.Service}
	listsHandler := &PackingListsHandler{Svc: cfg.Service}

	authMW := AuthMiddleware(cfg.JWTSecret, cfg.DB)
	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	// Ops.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.DB.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Public: login and registration.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))

	// Uploads and images.
	mux.Handle("POST /api/uploads", authed(uploadsHandler.Create))
	mux.Handle("PUT /api/uploads/{id}", authed(uploadsHandler.Put))
	mux.Handle("GET /api/images/{id}", authed(uploadsHandler.Image))

	// Locations.
	mux.Handle("GET /api/locations", authed(locationsHandler.List))
	mux.Handle("POST /api/locations", authed(locationsHandler.Create))

	// Items.
	mux.Handle("GET /api/items", authed(itemsHandler.List))
	mux.Handle("POST /api/items", authed(itemsHandler.Create))
	mux.Handle("POST /api/items/convert-image", authed(itemsHandler.ConvertImage))
	mux.Handle("PATCH /api/items/{id}", authed(itemsHandler.Edit))
	mux.Handle("GET /api/items/{id}/pieces", authed(itemsHandler.Pieces))
	mux.Handle("POST /api/items/{id}/pieces", authed(itemsHandler.AddPiece))

	// Pieces.
	mux.Handle("POST /api/pieces/move", authed(piecesHandler.Move))
	mux.Handle("POST /api/pieces/pack", authed(piecesHandler.Pack))
	mux.Handle("POST /api/pieces/unpack", authed(piecesHandler.Unpack))
	mux.Handle("DELETE /api/pieces/{id}", authed(piecesHandler.Delete))
	mux.Handle("POST /api/pieces/{id}/lost", authed(piecesHandler.Lost))
	mux.Handle("POST /api/pieces/{id}/found", authed(piecesHandler.Found))
	mux.Handle("GET /api/pieces/{id}/history", authed(piecesHandler.History))
	mux.Handle("POST /api/location-logs", authed(piecesHandler.Logs))

	// Packing lists.
	mux.Handle("GET /api/packing-lists", authed(listsHandler.List))
	mux.Handle("POST /api/packing-lists", authed(listsHandler.Create))
	mux.Handle("GET /api/packing-lists/{id}", authed(listsHandler.Get))
	mux.Handle("PUT /api/packing-lists/{id}", authed(listsHandler.Update))
	mux.Handle("POST /api/packing-lists/{id}/items", authed(listsHandler.AddItems))
	mux.Handle("POST /api/packing-lists/{id}/items/remove", authed(listsHandler.RemoveItems))
	mux.Handle("GET /api/packing-lists/{id}/status", authed(listsHandler.Status))
	mux.Handle("POST /api/packing-lists/{id}/expire", authed(listsHandler.Expire))

	return mux
}
