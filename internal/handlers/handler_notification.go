package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/middleware"
)

// notificationHandler handles HTTP requests for the caller's notifications.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

// registerNotificationRoutes registers routes related to notifications.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := &notificationHandler{notificationService: notificationService}

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:id/read", h.markRead)
		notifications.POST("/read-all", h.markAllRead)
		notifications.GET("/preferences", h.listPreferences)
		notifications.PUT("/preferences", h.updatePreference)
	}
}

// listNotifications godoc
// @Summary List notifications
// @Description Lists the caller's notifications, newest first, with an unread count.
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread notifications" default(false)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	notifications, unread, nextToken, err := h.notificationService.ListNotifications(c.Request.Context(), callerID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, dto.ToListNotificationsResponse(notifications, unread, nextToken))
}

// markRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), callerID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

// markAllRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *notificationHandler) markAllRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), callerID); err != nil {
		respondServiceError(c, logger, err, "Failed to mark notifications read")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPreferences godoc
// @Summary List notification preferences
// @Description Returns the caller's per-event-type notification switches. Types with no stored row default to enabled.
// @Tags notifications
// @Produce json
// @Success 200 {array} dto.NotificationPreferenceResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/preferences [get]
func (h *notificationHandler) listPreferences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	prefs, err := h.notificationService.ListPreferences(c.Request.Context(), callerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list preferences")
		return
	}
	c.JSON(http.StatusOK, dto.ToNotificationPreferenceResponses(prefs))
}

// updatePreference godoc
// @Summary Toggle a notification preference
// @Description Enables or disables one event type for the caller.
// @Tags notifications
// @Accept json
// @Produce json
// @Param preference body dto.UpdateNotificationPreferenceRequest true "Preference toggle"
// @Success 200 {object} dto.NotificationPreferenceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/preferences [put]
func (h *notificationHandler) updatePreference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateNotificationPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	pref, err := h.notificationService.UpdatePreference(c.Request.Context(), callerID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update preference")
		return
	}
	c.JSON(http.StatusOK, dto.NotificationPreferenceResponse{Type: pref.Type, Enabled: pref.Enabled})
}
