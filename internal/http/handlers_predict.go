package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kasamvinay/phishformer/internal/log"
	"github.com/Kasamvinay/phishformer/internal/ml"
)

// Predict godoc
// @Summary Score a URL via the inference service
// @Description Thin synchronous proxy, no retry; the verdict document is
// @Description passed through verbatim.
// @Tags predict
// @Accept json
// @Produce json
// @Param payload body ml.PredictRequest true "url"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/predict [post]
func (h *Handler) Predict(c *gin.Context) {
	var in ml.PredictRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No URL provided"})
		return
	}

	raw, err := h.ML.Predict(c.Request.Context(), in)
	if err != nil {
		log.WithDD(c.Request.Context(), log.L()).Warn("predict proxy", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis service unavailable"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// PredictHealth godoc
// @Summary Inference service health
// @Tags predict
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]string
// @Router /api/predict/health [get]
func (h *Handler) PredictHealth(c *gin.Context) {
	raw, err := h.ML.Health(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis service unavailable"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
