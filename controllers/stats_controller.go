package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/fotos/store"
	"github.com/cppla/fotos/utils"
)

// StatsController provides collection statistics.
type StatsController struct {
	photos *store.Collection
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(photos *store.Collection) *StatsController {
	return &StatsController{photos: photos}
}

// GetStats returns photo counts overall and per size category.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats := s.photos.CountBySize()
	home, exhibition := s.photos.Partition()
	utils.Success(ctx, gin.H{
		"total":      stats.Total,
		"small":      stats.Small,
		"medium":     stats.Medium,
		"large":      stats.Large,
		"home":       len(home),
		"exhibition": len(exhibition),
	})
}
