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
)

const doctorDashboard = "/static/doctors_dashboard.html"

type RegisterDoctorRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
	Location string `json:"location" form:"location" binding:"required"`
}

type DoctorLoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req RegisterDoctorRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	if _, err := h.Store.FindDoctorByEmail(ctx, req.Email); err == nil {
		utils.SendError(c, http.StatusConflict, utils.CodeConflict, "Email already registered")
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
	doctor := &models.Doctor{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Password:  hashedPassword,
		Location:  strings.TrimSpace(req.Location),
		CreatedAt: h.now(),
	}
	if err := h.Store.CreateDoctor(ctx, doctor); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.SendError(c, http.StatusConflict, utils.CodeConflict, "Email already registered")
			return
		}
		h.internalError(c, "Failed to create doctor", err)
		return
	}

	if !h.startSession(c, models.KindDoctor, doctor.ID) {
		return
	}
	h.Notifier.SendDoctorWelcome(doctor.Email)
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"doctor_id": doctor.ID.Hex(),
		"redirect":  middleware.DoctorLoginPage,
	})
}

func (h *Handler) DoctorLogin(c *gin.Context) {
	var req DoctorLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	doctor, err := h.Store.FindDoctorByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !isNotFound(err) {
		h.internalError(c, "Database error", err)
		return
	}
	if doctor == nil || !utils.CheckPasswordHash(req.Password, doctor.Password) {
		utils.SendError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid credentials")
		return
	}

	if !h.startSession(c, models.KindDoctor, doctor.ID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "redirect": doctorDashboard})
}

func (h *Handler) DoctorLogout(c *gin.Context) {
	h.endSession(c, models.KindDoctor)
	if c.IsAborted() {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "redirect": middleware.DoctorLoginPage})
}

// DoctorSession names the signed-in doctor. The route is public, so the
// cookie is resolved here.
func (h *Handler) DoctorSession(c *gin.Context) {
	token, _ := c.Cookie(session.DoctorCookie)
	s, err := h.Sessions.Resolve(c.Request.Context(), models.KindDoctor, token)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			h.internalError(c, "Database error", err)
			return
		}
		utils.SendError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Unauthorized")
		return
	}
	middleware.SetPrincipal(c, s)

	doctor, err := h.Store.FindDoctorByID(c.Request.Context(), s.PrincipalID)
	if isNotFound(err) {
		utils.SendError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Unauthorized")
		return
	}
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": doctor.Name})
}

// ListDoctors is the patient-facing doctor directory.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Store.ListDoctors(c.Request.Context())
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}
