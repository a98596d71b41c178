package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fotos/notify"
	"github.com/cppla/fotos/utils"
)

// NotificationController exposes the notification feed and live stream.
type NotificationController struct {
	feed *notify.Feed
	hub  *notify.Hub
}

func NewNotificationController(feed *notify.Feed, hub *notify.Hub) *NotificationController {
	return &NotificationController{feed: feed, hub: hub}
}

// ListNotifications returns the notifications still on screen.
func (n *NotificationController) ListNotifications(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"notifications": n.feed.List(time.Now())})
}

// DismissNotification closes a notification before it times out.
func (n *NotificationController) DismissNotification(ctx *gin.Context) {
	if !n.feed.Dismiss(ctx.Param("id")) {
		utils.Error(ctx, http.StatusNotFound, 40470, "notification not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "notification dismissed"})
}

// Stream upgrades to a websocket that receives every new notification.
func (n *NotificationController) Stream(ctx *gin.Context) {
	if n.hub == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50370, "live notifications unavailable")
		return
	}
	n.hub.ServeWS(ctx.Writer, ctx.Request)
}
