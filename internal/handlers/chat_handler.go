package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/wellness"
)

type SymptomsRequest struct {
	Symptoms []string `json:"symptoms" binding:"required,min=1"`
	Age      int      `json:"age" binding:"gte=0,lte=150"`
	Gender   string   `json:"gender" binding:"required"`
}

// CheckSymptoms lists likely conditions and rule-based medicine suggestions.
func (h *Handler) CheckSymptoms(c *gin.Context) {
	var req SymptomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	triage, err := h.AI.CheckSymptoms(c.Request.Context(), req.Symptoms, req.Age, req.Gender)
	if err != nil {
		h.aiError(c, err)
		return
	}
	suggestions := []wellness.MedicineSuggestion{}
	if !triage.NoneFound {
		suggestions = wellness.SuggestMedicines(req.Symptoms)
	}
	c.JSON(http.StatusOK, gin.H{
		"diagnoses":            triage.Conditions,
		"medicine_suggestions": suggestions,
	})
}

// HandleChat answers a free-text question from the health assistant.
func (h *Handler) HandleChat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format, expecting {\"message\": \"...\"}")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(c, "Message cannot be empty")
		return
	}

	reply, err := h.AI.Chat(c.Request.Context(), req.Message)
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": reply})
}
