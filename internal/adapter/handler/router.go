package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// PingFunc reports whether the database is reachable
type PingFunc func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	ping             PingFunc
	metrics          http.Handler
	meetingHandler   *Meeting
	ragHandler       *RAG
	aiController     *AIController
	aiWebhookHandler *AIWebhookHandler
	authMW           echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers. A nil authMW leaves
// the API open.
func NewRouter(
	cfg *config.Config,
	ping PingFunc,
	metrics http.Handler,
	meetingHandler *Meeting,
	ragHandler *RAG,
	aiController *AIController,
	aiWebhookHandler *AIWebhookHandler,
	authMW echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:              cfg,
		ping:             ping,
		metrics:          metrics,
		meetingHandler:   meetingHandler,
		ragHandler:       ragHandler,
		aiController:     aiController,
		aiWebhookHandler: aiWebhookHandler,
		authMW:           authMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Provider callbacks authenticate with their own shared secret
	rt.setupWebhookRoutes(api)

	protected := api
	if rt.authMW != nil {
		protected = api.Group("", rt.authMW)
	}
	rt.setupMeetingRoutes(protected)
	rt.setupRAGRoutes(protected)
}

// setupMeetingRoutes configures ingest, meeting and transcript routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	if rt.meetingHandler == nil {
		g.POST("/ingest", rt.notImplemented)
		g.GET("/meetings", rt.notImplemented)
		g.GET("/utterances", rt.notImplemented)
		return
	}

	var ingestMW []echo.MiddlewareFunc
	if rt.cfg != nil && rt.cfg.Server.MaxUploadMB > 0 {
		// Multipart framing adds a little on top of the file itself
		ingestMW = append(ingestMW, middleware.BodyLimit(fmt.Sprintf("%dM", rt.cfg.Server.MaxUploadMB+1)))
	}
	g.POST("/ingest", rt.meetingHandler.Ingest, ingestMW...)

	g.GET("/meetings", rt.meetingHandler.ListMeetings)
	g.GET("/meetings/:id", rt.meetingHandler.GetMeeting)
	g.DELETE("/meetings/:id", rt.meetingHandler.DeleteMeeting)
	g.GET("/utterances", rt.meetingHandler.Utterances)
	g.GET("/transcript", rt.meetingHandler.Transcript)
	g.GET("/files", rt.meetingHandler.Files)

	if rt.aiController != nil {
		g.POST("/meetings/:id/transcribe", rt.aiController.Transcribe)
	} else {
		g.POST("/meetings/:id/transcribe", rt.notImplemented)
	}
}

// setupRAGRoutes configures index, summary and chat routes
func (rt *Router) setupRAGRoutes(g *echo.Group) {
	if rt.ragHandler == nil {
		g.POST("/index", rt.notImplemented)
		g.GET("/summarize", rt.notImplemented)
		g.GET("/summary", rt.notImplemented)
		g.POST("/chat", rt.notImplemented)
		g.POST("/narrate", rt.notImplemented)
		g.GET("/narration", rt.notImplemented)
		return
	}

	g.POST("/index", rt.ragHandler.Index)
	g.GET("/summarize", rt.ragHandler.Summarize)
	g.GET("/summary", rt.ragHandler.Summary)
	g.POST("/chat", rt.ragHandler.Chat)

	// Narration needs a multimodal provider and is off unless configured
	if rt.ragHandler.narrations != nil {
		g.POST("/narrate", rt.ragHandler.Narrate)
		g.GET("/narration", rt.ragHandler.Narration)
	} else {
		g.POST("/narrate", rt.notImplemented)
		g.GET("/narration", rt.notImplemented)
	}
}

// setupWebhookRoutes configures provider webhook routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.aiWebhookHandler != nil {
		g.POST("/webhooks/assemblyai", rt.aiWebhookHandler.HandleAssemblyAIWebhook)
	} else {
		g.POST("/webhooks/assemblyai", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, common.ErrorResponse{
		Code:    "NOT_IMPLEMENTED",
		Message: fmt.Sprintf("%s %s is not configured", c.Request().Method, c.Request().URL.Path),
	})
}

// healthCheck returns health status
// @Summary      Health check
// @Description  Liveness plus a database ping
// @Tags         System
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Failure      503  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	resp := common.HealthResponse{Status: "ok", Database: "ok", Environment: env}

	if rt.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := rt.ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
	}

	return c.JSON(http.StatusOK, resp)
}
