package http

import (
	"github.com/gin-gonic/gin"

	"github.com/botfabrik/dialog-backend/internal/http/handlers"
	"github.com/botfabrik/dialog-backend/internal/http/middleware"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	// MaxRequestBytes caps request bodies when > 0.
	MaxRequestBytes int64

	KBQAHandler       *handlers.KBQAHandler
	SelectorHandler   *handlers.SelectorHandler
	ImageSkillHandler *handlers.ImageSkillHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Log != nil {
		r.Use(middleware.RequestLog(cfg.Log))
	}
	r.Use(middleware.CORS())
	if cfg.MaxRequestBytes > 0 {
		r.Use(middleware.BodyLimit(cfg.MaxRequestBytes))
	}

	r.GET("/healthcheck", handlers.HealthCheck)

	if cfg.KBQAHandler != nil {
		r.POST("/model", cfg.KBQAHandler.FindCandidates)
		r.GET("/log/recent", cfg.KBQAHandler.RecentLog)
	}
	if cfg.SelectorHandler != nil {
		r.POST("/selected_skills", cfg.SelectorHandler.SelectedSkills)
	}
	if cfg.ImageSkillHandler != nil {
		r.POST("/respond", cfg.ImageSkillHandler.Respond)
	}
	return r
}
