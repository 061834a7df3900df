package app

import (
	"notekit/internal/auth"
	"notekit/internal/cache"
	"notekit/internal/config"
	"notekit/internal/handlers"
	"notekit/internal/repo"
	"notekit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, log *zap.Logger) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api")

	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL.Duration(), cfg.JWT.RefreshTTL.Duration())
	tokenStore := auth.NewStore(rdb)
	pages := cache.New(rdb, cfg.Redis.DefaultTTL.Duration(), log)

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, pages)
	authHandler := handlers.NewAuthHandler(userSvc, tokens, tokenStore, log)

	requireAuth := auth.RequireAuth(tokens, tokenStore, log)
	registerAuthRoutes(api, authHandler, requireAuth)

	protected := api.Group("", requireAuth)

	noteRepo := repo.NewPGNoteRepo(db)
	noteSvc := service.NewNoteService(noteRepo, pages)
	registerNoteRoutes(protected, handlers.NewNoteHandler(noteSvc), pages)

	todoRepo := repo.NewPGTodoRepo(db)
	todoSvc := service.NewTodoService(todoRepo, pages)
	registerTodoRoutes(protected, handlers.NewTodoHandler(todoSvc), pages)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Notekit API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, requireAuth gin.HandlerFunc) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.Refresh)

	api.POST("/auth/logout", requireAuth, h.Logout)
	api.GET("/auth/me", requireAuth, h.Me)
	api.PUT("/auth/password", requireAuth, h.ChangePassword)
	api.DELETE("/auth/account", requireAuth, h.DeleteAccount)
}

func registerNoteRoutes(api *gin.RouterGroup, h *handlers.NoteHandler, pages *cache.ResponseCache) {
	cached := pages.Middleware(cache.ResourceNotes)
	api.GET("/notes", cached, h.List)
	api.GET("/notes/:id", cached, h.GetByID)
	api.POST("/notes", h.Create)
	api.PUT("/notes/:id", h.Update)
	api.DELETE("/notes/:id", h.Delete)
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler, pages *cache.ResponseCache) {
	cached := pages.Middleware(cache.ResourceTodos)
	api.GET("/todos", cached, h.List)
	api.GET("/todos/:id", cached, h.GetByID)
	api.POST("/todos", h.Create)
	api.PUT("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.POST("/todos/:id/complete", h.Complete)
	api.POST("/todos/:id/reopen", h.Reopen)
}
