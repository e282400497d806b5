package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AppointmentRequest struct {
	DoctorID     string `json:"doctor_id" form:"doctor_id" binding:"required"`
	PatientEmail string `json:"patient_email" form:"patient_email" binding:"required,email"`
}

// RequestAppointment books a pending appointment with a doctor and emails
// the doctor about it.
func (h *Handler) RequestAppointment(c *gin.Context) {
	patientID, ok := h.userID(c)
	if !ok {
		return
	}
	var req AppointmentRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	doctorID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.DoctorID))
	if err != nil {
		badRequest(c, "Invalid doctor ID")
		return
	}

	ctx := c.Request.Context()
	doctor, err := h.Store.FindDoctorByID(ctx, doctorID)
	if isNotFound(err) {
		notFound(c, "Doctor not found")
		return
	}
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	patient, err := h.Store.FindUserByID(ctx, patientID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}

	apt := &models.Appointment{
		DoctorID:     doctor.ID,
		PatientID:    patientID,
		PatientName:  patient.Username,
		PatientEmail: req.PatientEmail,
		Status:       models.AppointmentPending,
		RequestedAt:  h.now(),
	}
	if err := h.Store.AddAppointment(ctx, apt); err != nil {
		h.internalError(c, "Database error", err)
		return
	}

	h.Notifier.SendAppointmentRequest(doctor, apt)
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"appointment_id": apt.ID.Hex(),
		"message":        "Appointment requested! Check your email.",
	})
}

// GetPatientAppointments lists the caller's own appointments.
func (h *Handler) GetPatientAppointments(c *gin.Context) {
	patientID, ok := h.userID(c)
	if !ok {
		return
	}
	appointments, err := h.Store.PatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// GetPendingAppointments lists requests waiting for the calling doctor.
func (h *Handler) GetPendingAppointments(c *gin.Context) {
	doctorID, ok := h.userID(c)
	if !ok {
		return
	}
	appointments, err := h.Store.PendingAppointments(c.Request.Context(), doctorID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// AcceptAppointment moves one of the doctor's pending appointments to
// accepted and tells the patient.
func (h *Handler) AcceptAppointment(c *gin.Context) {
	doctorID, ok := h.userID(c)
	if !ok {
		return
	}
	appointmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid appointment ID")
		return
	}

	ctx := c.Request.Context()
	apt, err := h.Store.AcceptAppointment(ctx, appointmentID, doctorID, h.now())
	if isNotFound(err) {
		notFound(c, "Appointment not found or already processed")
		return
	}
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}

	doctor, err := h.Store.FindDoctorByID(ctx, doctorID)
	if err != nil {
		h.Logger.Warn("doctor lookup for acceptance email failed", zap.Error(err))
		doctor = nil
	}
	h.Notifier.SendAppointmentAccepted(apt, doctor)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Appointment accepted!"})
}

// GetAcceptedAppointments lists accepted appointments, optionally for one
// day given as ?date=YYYY-MM-DD.
func (h *Handler) GetAcceptedAppointments(c *gin.Context) {
	doctorID, ok := h.userID(c)
	if !ok {
		return
	}
	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.now().Location())
		if err != nil {
			badRequest(c, "Invalid date format, use YYYY-MM-DD")
			return
		}
		day = &parsed
	}

	appointments, err := h.Store.AcceptedAppointments(c.Request.Context(), doctorID, day)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}
