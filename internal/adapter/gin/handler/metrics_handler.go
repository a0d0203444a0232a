package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// MetricsHandler renders a registry in the Prometheus text exposition format
type MetricsHandler struct {
	gatherer prometheus.Gatherer
	format   expfmt.Format
}

// NewMetricsHandler creates a MetricsHandler over g
func NewMetricsHandler(g prometheus.Gatherer) *MetricsHandler {
	return &MetricsHandler{
		gatherer: g,
		format:   expfmt.NewFormat(expfmt.TypeTextPlain),
	}
}

// Metrics handles GET /metrics. The body is rendered fully before anything
// is written so that a failure can still answer 500.
func (h *MetricsHandler) Metrics(c *gin.Context) {
	families, err := h.gatherer.Gather()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, h.format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
	}

	c.Data(http.StatusOK, string(h.format), buf.Bytes())
}
