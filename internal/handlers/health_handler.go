package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/ai"
	"github.com/harentsoaR/healthchain-api/internal/models"
	"github.com/harentsoaR/healthchain-api/internal/utils"
	"github.com/harentsoaR/healthchain-api/internal/wellness"
)

type LogRequest struct {
	Mood      string     `json:"mood" form:"mood" binding:"required"`
	Sleep     float64    `json:"sleep" form:"sleep"`
	Water     float64    `json:"water" form:"water"`
	Exercise  float64    `json:"exercise" form:"exercise"`
	Note      string     `json:"note" form:"note"`
	Timestamp *time.Time `json:"timestamp" form:"timestamp" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (h *Handler) AddLog(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req LogRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := wellness.ValidateLog(req.Sleep, req.Water, req.Exercise); err != nil {
		utils.SendError(c, http.StatusBadRequest, utils.CodeValidation, wellness.InvalidLogMessage)
		return
	}

	entry := &models.HealthLog{
		UserID:    userID,
		Mood:      req.Mood,
		Sleep:     req.Sleep,
		Water:     req.Water,
		Exercise:  req.Exercise,
		Note:      req.Note,
		Timestamp: h.stamp(req.Timestamp),
	}
	if err := h.Store.AddLog(c.Request.Context(), entry); err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "log_id": entry.ID.Hex()})
}

func (h *Handler) GetLogs(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	logs, err := h.Store.ListLogs(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

type MedicationRequest struct {
	Name   string `json:"name" form:"name" binding:"required"`
	Time   string `json:"time" form:"time" binding:"required"`
	Dosage string `json:"dosage" form:"dosage"`
}

// AddMedication stores a medication once the AI service recognises its name.
func (h *Handler) AddMedication(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req MedicationRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		badRequest(c, "Medicine name is required")
		return
	}

	recognized, err := h.AI.IsRecognizedMedicine(c.Request.Context(), name)
	if err != nil {
		h.aiError(c, err)
		return
	}
	if !recognized {
		utils.SendError(c, http.StatusBadRequest, utils.CodeValidation,
			"'"+name+"' is not a recognized medicine. Only approved medicines are allowed.")
		return
	}

	med := &models.Medication{
		UserID:    userID,
		Name:      name,
		Time:      req.Time,
		Dosage:    req.Dosage,
		Timestamp: h.now(),
	}
	if err := h.Store.AddMedication(c.Request.Context(), med); err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "med_id": med.ID.Hex()})
}

func (h *Handler) GetMedications(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	meds, err := h.Store.ListMedications(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, meds)
}

type VerifyMedicineRequest struct {
	MedicineName string `json:"medicine_name" binding:"required"`
}

func (h *Handler) VerifyMedicine(c *gin.Context) {
	var req VerifyMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	verdict, err := h.AI.VerifyMedicine(c.Request.Context(), strings.TrimSpace(req.MedicineName))
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

type ReminderRequest struct {
	Name string `json:"name" binding:"required"`
	// Time is a unix timestamp in milliseconds.
	Time int64 `json:"time" binding:"required"`
}

// SendEmailReminder emails the patient a reminder for one medication.
func (h *Handler) SendEmailReminder(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.Store.FindUserByID(c.Request.Context(), userID)
	if err != nil && !isNotFound(err) {
		h.internalError(c, "Database error", err)
		return
	}
	if user == nil || user.Email == "" {
		badRequest(c, "User email not found")
		return
	}

	at := time.UnixMilli(req.Time).In(h.now().Location())
	h.Notifier.SendMedicationReminder(user, req.Name, at)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Email reminder scheduled for " + req.Name + " at " + at.Format("15:04"),
	})
}

type NutritionRequest struct {
	FoodItem  string     `json:"food_item" form:"food_item" binding:"required"`
	Calories  float64    `json:"calories" form:"calories"`
	Protein   float64    `json:"protein" form:"protein"`
	Fats      float64    `json:"fats" form:"fats"`
	Carbs     float64    `json:"carbs" form:"carbs"`
	Timestamp *time.Time `json:"timestamp" form:"timestamp" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (h *Handler) AddNutrition(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req NutritionRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	entry := &models.NutritionEntry{
		UserID:    userID,
		FoodItem:  strings.TrimSpace(req.FoodItem),
		Calories:  req.Calories,
		Protein:   req.Protein,
		Fats:      req.Fats,
		Carbs:     req.Carbs,
		Timestamp: h.stamp(req.Timestamp),
	}
	if err := h.Store.AddNutrition(c.Request.Context(), entry); err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"suggestion":   wellness.EntrySuggestion,
		"nutrition_id": entry.ID.Hex(),
	})
}

// GetNutrition returns every entry plus today's totals.
func (h *Handler) GetNutrition(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	entries, err := h.Store.ListNutrition(c.Request.Context(), userID, time.Time{})
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":       entries,
		"today_summary": wellness.SummarizeDay(entries, h.now()),
	})
}

type FetchNutritionRequest struct {
	FoodItem string `json:"food_item"`
}

// FetchNutrition asks the AI service for a food's macro-nutrients.
func (h *Handler) FetchNutrition(c *gin.Context) {
	var req FetchNutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	food := strings.TrimSpace(req.FoodItem)
	if food == "" {
		badRequest(c, "Food item cannot be empty")
		return
	}

	nutrients, err := h.AI.LookupNutrients(c.Request.Context(), food)
	var noData *ai.NoDataError
	if errors.As(err, &noData) {
		utils.SendError(c, http.StatusBadRequest, utils.CodeNoData, noData.Message)
		return
	}
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"food_item": food,
		"calories":  nutrients.Calories,
		"protein":   nutrients.Protein,
		"fats":      nutrients.Fats,
		"carbs":     nutrients.Carbs,
	})
}

type FitnessRequest struct {
	ExerciseName string   `json:"exercise_name" form:"exercise_name" binding:"required"`
	Duration     int      `json:"duration" form:"duration" binding:"gte=0"`
	Intensity    int      `json:"intensity" form:"intensity" binding:"gte=0"`
	Weight       *float64 `json:"weight" form:"weight"`
	Goal         string   `json:"goal" form:"goal"`
	FitnessLevel string   `json:"fitness_level" form:"fitness_level"`
}

func (h *Handler) AddFitness(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req FitnessRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	entry := &models.FitnessEntry{
		UserID:       userID,
		ExerciseName: strings.TrimSpace(req.ExerciseName),
		Duration:     req.Duration,
		Intensity:    req.Intensity,
		Weight:       req.Weight,
		Goal:         strings.ToLower(strings.TrimSpace(req.Goal)),
		FitnessLevel: strings.ToLower(strings.TrimSpace(req.FitnessLevel)),
		Timestamp:    h.now(),
	}
	if err := h.Store.AddFitness(c.Request.Context(), entry); err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "fitness_id": entry.ID.Hex()})
}

func (h *Handler) GetFitness(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	entries, err := h.Store.ListFitness(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetFitnessPlan suggests a workout from the latest session and today's intake.
func (h *Handler) GetFitnessPlan(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	latest, err := h.Store.LatestFitness(ctx, userID)
	if err != nil && !isNotFound(err) {
		h.internalError(c, "Database error", err)
		return
	}
	now := h.now()
	since, err := h.Store.ListNutrition(ctx, userID, wellness.StartOfDay(now))
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, wellness.BuildPlan(latest, wellness.OnDay(since, now)))
}

func (h *Handler) GetFitnessProgress(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	entries, err := h.Store.ListFitness(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, wellness.BuildProgress(entries))
}

type ForumPostRequest struct {
	Title     string     `json:"title" form:"title" binding:"required"`
	Content   string     `json:"content" form:"content" binding:"required"`
	Timestamp *time.Time `json:"timestamp" form:"timestamp" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (h *Handler) AddForumPost(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req ForumPostRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	ctx := c.Request.Context()
	author := "anonymous"
	if user, err := h.Store.FindUserByID(ctx, userID); err == nil {
		author = user.Username
	}

	post := &models.ForumPost{
		UserID:    userID,
		Author:    author,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Timestamp: h.stamp(req.Timestamp),
	}
	if err := h.Store.AddPost(ctx, post); err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "post_id": post.ID.Hex()})
}

func (h *Handler) GetForumPosts(c *gin.Context) {
	posts, err := h.Store.ListPosts(c.Request.Context())
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
