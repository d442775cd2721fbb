package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ptarling/trolley/internal/access"
	"github.com/ptarling/trolley/internal/backup"
	"github.com/ptarling/trolley/internal/chat"
	"github.com/ptarling/trolley/internal/config"
	"github.com/ptarling/trolley/internal/handler"
	"github.com/ptarling/trolley/internal/llm"
	"github.com/ptarling/trolley/internal/middleware"
	"github.com/ptarling/trolley/internal/push"
	"github.com/ptarling/trolley/internal/service"
	"github.com/ptarling/trolley/internal/store"
	ws "github.com/ptarling/trolley/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	checker       *access.Checker
	authH         *handler.AuthHandler
	listH         *handler.ListHandler
	categoryH     *handler.CategoryHandler
	itemH         *handler.ItemHandler
	chatH         *handler.ChatHandler
	pushH         *handler.PushHandler
	sessionStore  *store.SessionStore
	userStore     *store.UserStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	listStore := store.NewListStore(db)
	categoryStore := store.NewCategoryStore(db)
	itemStore := store.NewItemStore(db)
	pushStore := store.NewPushStore(db)

	checker := access.NewChecker(listStore, categoryStore, itemStore)
	listSvc := service.NewListService(listStore, userStore, checker)
	categorySvc := service.NewCategoryService(categoryStore, checker)
	itemSvc := service.NewItemService(itemStore, categoryStore, checker)

	completer := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.LLMTimeout,
	})
	executor := chat.NewExecutor(categorySvc, itemSvc, logger.With("component", "chat_tools"))
	orchestrator := chat.NewOrchestrator(completer, executor, listSvc, categorySvc, logger.With("component", "chat"))

	pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	notifier := push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))

	backupMgr := backup.NewManager(backup.Config{
		Bucket:    cfg.BackupBucket,
		Endpoint:  cfg.BackupEndpoint,
		Region:    cfg.BackupRegion,
		AccessKey: cfg.BackupAccessKey,
		SecretKey: cfg.BackupSecretKey,
		Interval:  cfg.BackupInterval,
	}, db, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		checker:       checker,
		authH:         handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		listH:         handler.NewListHandler(listSvc, hub, logger.With("component", "list")),
		categoryH:     handler.NewCategoryHandler(categorySvc, hub, logger.With("component", "category")),
		itemH:         handler.NewItemHandler(itemSvc, hub, logger.With("component", "item")),
		chatH:         handler.NewChatHandler(orchestrator, listSvc, hub, notifier, logger.With("component", "chat_handler")),
		pushH:         handler.NewPushHandler(pushSvc, pushStore, logger.With("component", "push_handler")),
		sessionStore:  sessionStore,
		userStore:     userStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes wrapped with RequireAuth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// List routes
	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)

	// Membership routes
	mux.HandleFunc("GET /api/lists/{id}/members", s.listH.Members)
	mux.HandleFunc("POST /api/lists/{id}/members", s.listH.AddMember)
	mux.HandleFunc("DELETE /api/lists/{id}/members/{user_id}", s.listH.RemoveMember)

	// Category routes
	mux.HandleFunc("GET /api/lists/{id}/categories", s.categoryH.ListByList)
	mux.HandleFunc("POST /api/lists/{id}/categories", s.categoryH.Create)
	mux.HandleFunc("GET /api/categories/{id}", s.categoryH.Get)
	mux.HandleFunc("PUT /api/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// Item routes
	mux.HandleFunc("GET /api/lists/{id}/items", s.itemH.ListByList)
	mux.HandleFunc("GET /api/categories/{id}/items", s.itemH.ListByCategory)
	mux.HandleFunc("POST /api/categories/{id}/items", s.itemH.Create)
	mux.HandleFunc("GET /api/items/{id}", s.itemH.Get)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)
	mux.HandleFunc("POST /api/items/{id}/tick", s.itemH.Tick)
	mux.HandleFunc("POST /api/items/{id}/untick", s.itemH.Untick)

	// Chat assistant
	mux.HandleFunc("POST /api/lists/{id}/chat", s.chatH.Send)

	// Push notifications
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDPublicKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// WebSocket change feed, scoped to one list
	mux.HandleFunc("GET /ws/lists/{list_id}", ws.HandleWebSocket(s.hub, s.checker))
}
