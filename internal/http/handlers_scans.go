package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kasamvinay/phishformer/internal/domain"
	"github.com/Kasamvinay/phishformer/internal/queue"
	"github.com/Kasamvinay/phishformer/internal/repo"
)

// ListScans godoc
// @Summary List the caller's scan history
// @Tags scans
// @Produce json
// @Param status query string false "safe | phishing | suspicious | all"
// @Param q query string false "URL substring, case-insensitive"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/scans [get]
func (h *Handler) ListScans(c *gin.Context) {
	au := caller(c)
	scans, err := h.Store.ListScans(c.Request.Context(), au.ID, repo.ScanFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

type createScanReq struct {
	URL          string          `json:"url"`
	Status       string          `json:"status"`
	Confidence   *float64        `json:"confidence"`
	AnalysisTime *float64        `json:"analysisTime"`
	Threats      json.RawMessage `json:"threats"`
}

// threatList tolerates clients sending anything but a string array in
// "threats": such values collapse to the empty list rather than failing the
// whole request.
func threatList(raw json.RawMessage) []string {
	var out []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return []string{}
		}
	}
	return out
}

// CreateScan godoc
// @Summary Record a scan result
// @Tags scans
// @Accept json
// @Produce json
// @Param payload body createScanReq true "scan"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/scans [post]
func (h *Handler) CreateScan(c *gin.Context) {
	au := caller(c)
	var in createScanReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	if in.URL == "" || in.Status == "" || in.Confidence == nil || in.AnalysisTime == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	if !domain.ValidStatus(in.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	sc := &domain.Scan{
		UserID:       au.ID,
		URL:          in.URL,
		Status:       in.Status,
		Confidence:   *in.Confidence,
		AnalysisTime: *in.AnalysisTime,
		Threats:      threatList(in.Threats),
	}
	if err := h.Store.InsertScan(c.Request.Context(), sc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, "scan.recorded",
		queue.ScanRecorded{ScanID: sc.ID, UserID: sc.UserID, URL: sc.URL, Status: sc.Status},
		reqID(c))

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": sc.ID.Hex()})
}
