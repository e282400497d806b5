// Package handlers holds the HealthChain HTTP API.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/ai"
	"github.com/harentsoaR/healthchain-api/internal/middleware"
	"github.com/harentsoaR/healthchain-api/internal/services"
	"github.com/harentsoaR/healthchain-api/internal/session"
	"github.com/harentsoaR/healthchain-api/internal/store"
	"github.com/harentsoaR/healthchain-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Options struct {
	ReportsDir string
	BcryptCost int
}

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	Store      store.Store
	Sessions   *session.Manager
	AI         *ai.Service
	Notifier   *services.NotificationService
	Logger     *zap.Logger
	ReportsDir string
	BcryptCost int

	now func() time.Time
}

func NewHandler(st store.Store, sessions *session.Manager, aiSvc *ai.Service, notifier *services.NotificationService, logger *zap.Logger, opts Options) *Handler {
	return &Handler{
		Store:      st,
		Sessions:   sessions,
		AI:         aiSvc,
		Notifier:   notifier,
		Logger:     logger,
		ReportsDir: opts.ReportsDir,
		BcryptCost: opts.BcryptCost,
		now:        time.Now,
	}
}

// userID returns the authenticated principal. Gate guarantees it on every
// protected route; a missing value is answered with 401.
func (h *Handler) userID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.PrincipalID(c)
	if !ok {
		utils.SendError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Unauthorized")
	}
	return id, ok
}

// internalError logs err and answers with a generic 500.
func (h *Handler) internalError(c *gin.Context, message string, err error) {
	h.Logger.Error(message,
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	utils.SendError(c, http.StatusInternalServerError, utils.CodeInternal, message)
}

// aiError answers a failed AI call.
func (h *Handler) aiError(c *gin.Context, err error) {
	h.Logger.Error("ai service call failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	utils.SendError(c, http.StatusInternalServerError, utils.CodeAIUnavailable, "AI service error")
}

// bindError answers a request body that failed to bind or validate.
func bindError(c *gin.Context, err error) {
	if middleware.IsTooLarge(err) {
		utils.SendError(c, http.StatusRequestEntityTooLarge, utils.CodeTooLarge, "Request body too large")
		return
	}
	utils.SendErrorDetails(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request", err.Error())
}

func badRequest(c *gin.Context, message string) {
	utils.SendError(c, http.StatusBadRequest, utils.CodeInvalidRequest, message)
}

func notFound(c *gin.Context, message string) {
	utils.SendError(c, http.StatusNotFound, utils.CodeNotFound, message)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// stamp returns t, or now when the client sent none.
func (h *Handler) stamp(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return h.now()
	}
	return *t
}
