package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/fotos/notify"
	"github.com/cppla/fotos/themes"
	"github.com/cppla/fotos/utils"
)

// ThemeController lists the visual themes and switches between them.
type ThemeController struct {
	state    *themes.State
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewThemeController(state *themes.State, notifier notify.Notifier, logger *zap.Logger) *ThemeController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ThemeController{state: state, notifier: notifier, logger: logger}
}

// ListThemes returns every theme, the selected index and its CSS variables.
func (t *ThemeController) ListThemes(ctx *gin.Context) {
	all, current := t.state.List()
	utils.Success(ctx, gin.H{
		"themes":    all,
		"current":   current,
		"variables": all[current].CSSVariables(),
	})
}

// ApplyTheme selects the theme at the given index.
func (t *ThemeController) ApplyTheme(ctx *gin.Context) {
	var req struct {
		Index *int `json:"index" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	theme, err := t.state.Apply(*req.Index)
	if errors.Is(err, themes.ErrUnknownTheme) {
		utils.Error(ctx, http.StatusNotFound, 40460, "theme not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to apply theme")
		return
	}

	if err := t.notifier.Notify(ctx.Request.Context(), notify.ThemeChanged(theme.Name)); err != nil {
		t.logger.Debug("notification delivery failed", zap.Error(err))
	}
	utils.Success(ctx, gin.H{
		"current":   *req.Index,
		"theme":     theme,
		"variables": theme.CSSVariables(),
	})
}
