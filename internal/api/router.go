package api

import (
	"html/template"

	"revisionai/internal/api/handlers"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig gathers what the HTTP router is built from.
type RouterConfig struct {
	Handler      *handlers.Handler
	Logger       *zap.Logger
	SessionName  string
	SessionStore sessions.Store
	FrontendURL  string
	Templates    *template.Template
}

// NewRouter builds the gin engine with middlewares, templates and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Logger))
	if cfg.FrontendURL != "" {
		router.Use(CORSMiddleware(cfg.FrontendURL))
	}
	router.Use(sessions.Sessions(cfg.SessionName, cfg.SessionStore))
	router.SetHTMLTemplate(cfg.Templates)

	SetupRoutes(router, cfg.Handler)
	return router
}
