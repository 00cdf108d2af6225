package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shapy/shapy/backend-go/internal/asset"
	"github.com/shapy/shapy/backend-go/internal/auth"
	"github.com/shapy/shapy/backend-go/internal/collab"
	"github.com/shapy/shapy/backend-go/internal/config"
	"github.com/shapy/shapy/backend-go/internal/db"
	"github.com/shapy/shapy/backend-go/internal/export"
	mw "github.com/shapy/shapy/backend-go/internal/middleware"
	"github.com/shapy/shapy/backend-go/internal/scenes"
	"github.com/shapy/shapy/backend-go/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	sceneService := scenes.NewService(st)
	sceneHandler := scenes.NewHandler(sceneService)

	hub := collab.NewHub(sceneService.LoadScene, sceneService.SaveScene)
	go hub.Run()

	assetHandler := asset.NewHandler(cfg.AssetDir)
	exportHandler := export.NewHandler(sceneService)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// User routes (public)
	r.HandleFunc("/api/user/register", authHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/user/login", authHandler.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/user/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Texture endpoints
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/user/auth", authHandler.Me).Methods("GET")

	api.HandleFunc("/scenes", sceneHandler.List).Methods("GET")
	api.HandleFunc("/scenes", sceneHandler.Create).Methods("POST")
	api.HandleFunc("/scenes/{sceneId}", sceneHandler.Get).Methods("GET")
	api.HandleFunc("/scenes/{sceneId}", sceneHandler.Delete).Methods("DELETE")
	api.HandleFunc("/scenes/{sceneId}/invite", sceneHandler.Invite).Methods("POST")
	api.HandleFunc("/scenes/{sceneId}/snapshots/latest", sceneHandler.GetLatestSnapshot).Methods("GET")
	api.HandleFunc("/scenes/{sceneId}/export/obj", exportHandler.ExportOBJ).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/api/sock/{sceneId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, sceneService, cfg.AllowedOrigins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so every edited scene is flushed
		slog.Info("saving open scenes...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, sceneSvc *scenes.Service, origins []string) {
	sceneID := mux.Vars(r)["sceneId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if err := sceneSvc.CheckMembership(r.Context(), sceneID, userID); err != nil {
		http.Error(w, "not a scene member", http.StatusForbidden)
		return
	}

	user, err := authSvc.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, user.DisplayName, sceneID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips the scheme off the configured origins, which is the
// form websocket.AcceptOptions expects.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		patterns = append(patterns, o)
	}
	return patterns
}
