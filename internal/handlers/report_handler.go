package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/healthchain-api/internal/ai"
	"github.com/harentsoaR/healthchain-api/internal/models"
	"github.com/harentsoaR/healthchain-api/internal/report"
	"github.com/harentsoaR/healthchain-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errNotImage = errors.New("uploaded file is not an image")

// readImage loads an optional uploaded image. It returns nil data when the
// field is absent.
func readImage(c *gin.Context, field string) (data []byte, mimeType, filename string, err error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, "", "", nil
	}
	if err != nil {
		return nil, "", "", err
	}
	f, err := header.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", err
	}
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, "", "", errNotImage
	}
	return data, detected.String(), header.Filename, nil
}

// uploadError answers a failed image upload.
func (h *Handler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNotImage):
		badRequest(c, "Only image files can be analyzed")
	default:
		bindError(c, err)
	}
}

type suppliedLog struct {
	Timestamp string  `json:"timestamp"`
	Mood      string  `json:"mood"`
	Sleep     float64 `json:"sleep"`
	Water     float64 `json:"water"`
	Exercise  float64 `json:"exercise"`
	Note      string  `json:"note"`
}

var logTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05", "2006-01-02"}

// parseSuppliedLogs decodes the optional "logs" form field, a JSON array.
func parseSuppliedLogs(raw string, userID primitive.ObjectID, now time.Time) ([]models.HealthLog, error) {
	var supplied []suppliedLog
	if err := json.Unmarshal([]byte(raw), &supplied); err != nil {
		return nil, err
	}
	logs := make([]models.HealthLog, 0, len(supplied))
	for _, s := range supplied {
		ts := now
		for _, layout := range logTimeLayouts {
			if t, err := time.ParseInLocation(layout, s.Timestamp, now.Location()); err == nil {
				ts = t
				break
			}
		}
		logs = append(logs, models.HealthLog{
			UserID:    userID,
			Mood:      s.Mood,
			Sleep:     s.Sleep,
			Water:     s.Water,
			Exercise:  s.Exercise,
			Note:      s.Note,
			Timestamp: ts,
		})
	}
	return logs, nil
}

// CreateReport summarises the patient's logs, earlier analyses and an
// optional image into a stored report with a PDF copy.
func (h *Handler) CreateReport(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	now := h.now()

	username := strings.TrimSpace(c.PostForm("username"))
	if username == "" {
		username = "User"
		if user, err := h.Store.FindUserByID(ctx, userID); err == nil {
			username = user.Username
		}
	}

	var logs []models.HealthLog
	if raw := strings.TrimSpace(c.PostForm("logs")); raw != "" {
		parsed, err := parseSuppliedLogs(raw, userID, now)
		if err != nil {
			badRequest(c, "Invalid logs format, expecting a JSON array")
			return
		}
		logs = parsed
	} else {
		stored, err := h.Store.ListLogs(ctx, userID)
		if err != nil {
			h.internalError(c, "Database error", err)
			return
		}
		logs = stored
	}
	if len(logs) == 0 {
		logs = []models.HealthLog{{UserID: userID, Mood: "N/A", Note: "No logs available", Timestamp: now}}
	}

	previous, err := h.Store.ListReports(ctx, userID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	analyses := make([]string, 0, len(previous))
	for _, r := range previous {
		text := r.Analysis
		if text == "" {
			text = "No analysis available"
		}
		analyses = append(analyses, fmt.Sprintf("Analysis from %s: %s", r.Timestamp.Format(time.RFC3339), text))
	}
	analysesText := strings.Join(analyses, "\n")
	if analysesText == "" {
		analysesText = "No previous analyses available."
	}

	image, mimeType, _, err := readImage(c, "image")
	if err != nil {
		h.uploadError(c, err)
		return
	}
	var imageAnalysis string
	if image != nil {
		imageAnalysis, err = h.AI.AnalyzeImage(ctx, mimeType, image)
		if err != nil {
			h.aiError(c, err)
			return
		}
	}

	logsJSON, err := json.Marshal(logs)
	if err != nil {
		h.internalError(c, "Failed to encode logs", err)
		return
	}
	analysis, err := h.AI.SummarizeReport(ctx, username, string(logsJSON), analysesText, imageAnalysis)
	if err != nil {
		h.aiError(c, err)
		return
	}

	// The PDF is written first so a stored report always has its file.
	rep := &models.Report{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Username:      username,
		Logs:          logs,
		Analysis:      analysis,
		ImageAnalysis: imageAnalysis,
		Timestamp:     now,
	}
	path, err := report.WriteFile(h.ReportsDir, report.Document{
		ReportID:    rep.ID.Hex(),
		PatientName: username,
		IssuedAt:    now,
		Logs:        logs,
		Analysis:    analysis,
	})
	if err != nil {
		h.internalError(c, "Failed to generate report", err)
		return
	}
	rep.PDFPath = path
	if err := h.Store.AddReport(ctx, rep); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			h.Logger.Warn("removing orphaned report file", zap.String("path", path), zap.Error(rmErr))
		}
		h.internalError(c, "Database error", err)
		return
	}
	h.Logger.Info("report generated", zap.String("report_id", rep.ID.Hex()), zap.String("path", path))

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"report_id":    rep.ID.Hex(),
		"download_url": "/api/download-report/" + rep.ID.Hex(),
		"summary":      ai.Summary(analysis),
		"timestamp":    rep.Timestamp,
	})
}

func (h *Handler) GetReports(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	reports, err := h.Store.ListReports(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// DownloadReport sends a report's PDF to its owner.
func (h *Handler) DownloadReport(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		notFound(c, "Report not found")
		return
	}
	rep, err := h.Store.FindReport(c.Request.Context(), id)
	if isNotFound(err) || (err == nil && (rep.UserID != userID || rep.PDFPath == "")) {
		notFound(c, "Report not found")
		return
	}
	if err != nil {
		h.internalError(c, "Database error", err)
		return
	}
	if _, err := os.Stat(rep.PDFPath); err != nil {
		notFound(c, "PDF file not found")
		return
	}
	c.FileAttachment(rep.PDFPath, report.FileName(rep.ID.Hex()))
}

// AnalyzeReport runs image analysis on an uploaded file.
func (h *Handler) AnalyzeReport(c *gin.Context) {
	image, mimeType, filename, err := readImage(c, "file")
	if err != nil {
		h.uploadError(c, err)
		return
	}
	if image == nil {
		utils.SendError(c, http.StatusBadRequest, utils.CodeValidation, "File is required")
		return
	}

	analysis, err := h.AI.AnalyzeImage(c.Request.Context(), mimeType, image)
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": gin.H{
		"filename":       filename,
		"extracted_text": "N/A (Image-based analysis)",
		"ai_analysis":    analysis,
	}})
}
