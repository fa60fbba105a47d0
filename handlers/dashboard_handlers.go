package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"ecomdash/api/charts"
	"ecomdash/api/store"

	"github.com/gin-gonic/gin"
)

type DashboardHandlers struct {
	AnalyticsStore *store.AnalyticsStore
}

func NewDashboardHandlers(s *store.AnalyticsStore) *DashboardHandlers {
	return &DashboardHandlers{AnalyticsStore: s}
}

// Index renders the dashboard page. Without a snapshot it shows the load error.
func (h *DashboardHandlers) Index(c *gin.Context) {
	var loadErr string
	if err := h.AnalyticsStore.LastError(); err != nil {
		loadErr = err.Error()
	}
	r, err := h.AnalyticsStore.Report()
	if err != nil {
		if loadErr == "" {
			loadErr = err.Error()
		}
		c.HTML(http.StatusServiceUnavailable, "dashboard.html", gin.H{"Report": nil, "LoadError": loadErr})
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Report": r, "LoadError": loadErr})
}

// ChartImage serves /charts/<id>.png.
func (h *DashboardHandlers) ChartImage(c *gin.Context) {
	file := c.Param("file")
	id, ok := strings.CutSuffix(file, ".png")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown chart"})
		return
	}
	img, err := h.AnalyticsStore.Chart(id)
	switch {
	case err == nil:
		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, "image/png", img)
	case errors.Is(err, charts.ErrUnknownChart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown chart"})
	case errors.Is(err, store.ErrNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dataset not loaded"})
	default:
		log.Printf("Error rendering chart %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
	}
}
