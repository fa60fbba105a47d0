// api/handlers/stats_handlers.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"ecomdash/api/export"
	"ecomdash/api/models"
	"ecomdash/api/store"
	"ecomdash/api/utils"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandlers struct {
	AnalyticsStore *store.AnalyticsStore
}

func NewAnalyticsHandlers(s *store.AnalyticsStore) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		AnalyticsStore: s,
	}
}

// report writes a 503 and returns false while no snapshot is loaded.
func (h *AnalyticsHandlers) report(c *gin.Context) (*models.Report, bool) {
	r, err := h.AnalyticsStore.Report()
	if err != nil {
		resp := gin.H{"error": "Dataset not loaded"}
		if lastErr := h.AnalyticsStore.LastError(); lastErr != nil {
			resp["details"] = lastErr.Error()
		}
		c.JSON(http.StatusServiceUnavailable, resp)
		return nil, false
	}
	c.Header("X-Snapshot-ID", r.SnapshotID)
	return r, true
}

func (h *AnalyticsHandlers) Health(c *gin.Context) {
	resp := gin.H{"status": "ok", "source": h.AnalyticsStore.Source.Name()}
	if r, err := h.AnalyticsStore.Report(); err == nil {
		resp["snapshotId"] = r.SnapshotID
		resp["loadedAt"] = r.LoadedAt.Format(time.RFC3339)
	} else {
		resp["status"] = "degraded"
	}
	if lastErr := h.AnalyticsStore.LastError(); lastErr != nil {
		resp["lastError"] = lastErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnalyticsHandlers) GetSummary(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r.Summary)
}

func (h *AnalyticsHandlers) GetMonthlyIncome(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r.MonthlyIncome)
}

func (h *AnalyticsHandlers) GetMonthlyOrders(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":          r.Summary.Year,
		"months":        r.MonthlyOrders,
		"growthPercent": r.Summary.GrowthPercent,
		"narrative":     r.Narrative.Growth,
	})
}

func (h *AnalyticsHandlers) GetDistribution(c *gin.Context) {
	field := c.Param("field")
	if !utils.IsValidField(field) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field must be one of frequency, recency, monetary"})
		return
	}
	bins, err := utils.ParseBins(c.Query("bins"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, ok := h.report(c)
	if !ok {
		return
	}

	d, err := h.AnalyticsStore.Distribution(field, bins)
	if err != nil {
		log.Printf("Error computing %s distribution: %v", field, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute distribution"})
		return
	}
	var text string
	switch field {
	case "frequency":
		text = r.Narrative.Frequency
	case "recency":
		text = r.Narrative.Recency
	case "monetary":
		text = r.Narrative.Monetary
	}
	c.JSON(http.StatusOK, gin.H{"distribution": d, "narrative": text})
}

func (h *AnalyticsHandlers) GetSegments(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"segments": r.Segments, "narrative": r.Narrative.Segments})
}

func (h *AnalyticsHandlers) GetReport(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *AnalyticsHandlers) ExportWorkbook(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, r, c.Query("charts") != ""); err != nil {
		log.Printf("Error writing workbook for snapshot %s: %v", r.SnapshotID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export workbook"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ecommerce-dashboard.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *AnalyticsHandlers) ExportMarkdown(c *gin.Context) {
	r, ok := h.report(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteMarkdown(&buf, r); err != nil {
		log.Printf("Error writing markdown for snapshot %s: %v", r.SnapshotID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", buf.Bytes())
}

// Reload loads a fresh snapshot from the configured source.
func (h *AnalyticsHandlers) Reload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	if err := h.AnalyticsStore.Reload(ctx); err != nil {
		log.Printf("Error reloading dataset: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": "Failed to reload dataset", "details": err.Error()})
		return
	}
	r, _ := h.AnalyticsStore.Report()
	log.Printf("Dataset reloaded by %v: snapshot %s", c.MustGet("admin_email"), r.SnapshotID)
	c.JSON(http.StatusOK, gin.H{"snapshotId": r.SnapshotID, "loadedAt": r.LoadedAt.Format(time.RFC3339)})
}
