package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/middleware"
	"github.com/harentsoaR/healthchain-api/internal/models"
	"github.com/harentsoaR/healthchain-api/internal/session"
	"github.com/harentsoaR/healthchain-api/internal/store"
	"github.com/harentsoaR/healthchain-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	patientHome = "/static/index.html"
)

type RegisterUserRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
	Email    string `json:"email" form:"email" binding:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterUser creates a patient account and signs it in.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	ctx := c.Request.Context()

	if _, err := h.Store.FindUserByUsername(ctx, req.Username); err == nil {
		utils.SendError(c, http.StatusConflict, utils.CodeConflict, "Username already exists")
		return
	} else if !isNotFound(err) {
		h.internalError(c, "Database error", err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password, h.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		utils.SendError(c, http.StatusBadRequest, utils.CodeValidation, "Password must be at most 72 bytes")
		return
	}
	if err != nil {
		h.internalError(c, "Failed to hash password", err)
		return
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		CreatedAt: h.now(),
	}
	if err := h.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.SendError(c, http.StatusConflict, utils.CodeConflict, "Username already exists")
			return
		}
		h.internalError(c, "Failed to create user", err)
		return
	}

	if !h.startSession(c, models.KindPatient, user.ID) {
		return
	}
	h.Notifier.SendWelcome(user.Email)
	c.JSON(http.StatusOK, gin.H{"status": "success", "redirect": patientHome})
}

// Login signs a patient in from a form or JSON body.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.Store.FindUserByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil && !isNotFound(err) {
		h.internalError(c, "Database error", err)
		return
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		utils.SendError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid credentials")
		return
	}

	if !h.startSession(c, models.KindPatient, user.ID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "redirect": patientHome})
}

// Logout ends the patient session.
func (h *Handler) Logout(c *gin.Context) {
	h.endSession(c, models.KindPatient)
	if c.IsAborted() {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "redirect": middleware.PatientLoginPage})
}

// GetSession describes the signed-in patient.
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	user, err := h.Store.FindUserByID(c.Request.Context(), id)
	if isNotFound(err) {
		utils.SendError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Unauthorized")
		return
	}
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": user.Username, "email": user.Email})
}

// startSession issues a session and sets its cookie. It reports false after
// answering the request with an error.
func (h *Handler) startSession(c *gin.Context, kind models.PrincipalKind, principalID primitive.ObjectID) bool {
	token, expires, err := h.Sessions.Issue(c.Request.Context(), kind, principalID)
	if err != nil {
		h.internalError(c, "Failed to create session", err)
		return false
	}
	h.Sessions.SetCookie(c.Writer, kind, token, expires)
	return true
}

func (h *Handler) endSession(c *gin.Context, kind models.PrincipalKind) {
	token, _ := c.Cookie(session.CookieName(kind))
	if token != "" {
		if err := h.Sessions.Revoke(c.Request.Context(), kind, token); err != nil {
			h.internalError(c, "Logout failed", err)
			return
		}
	}
	h.Sessions.ClearCookie(c.Writer, kind)
}
