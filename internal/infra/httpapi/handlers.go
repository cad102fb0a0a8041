package httpapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"rent_reminder_service/internal/app"
)

type reminderHandler struct {
	runner app.ReminderRunner
}

// runRequestBody is optional; an empty body runs every tenant for real.
type runRequestBody struct {
	DryRun    bool     `json:"dryRun"`
	TenantIDs []string `json:"tenantIds" validate:"omitempty,max=500,dive,uuid"`
}

type smartRemindersResponse struct {
	NotificationsSent int  `json:"notificationsSent"`
	Partial           bool `json:"partial,omitempty"`
}

type remindersResponse struct {
	Message           string `json:"message"`
	NotificationsSent int    `json:"notificationsSent"`
}

func (h *reminderHandler) sendSmartReminders(c echo.Context) error {
	var body runRequestBody
	if c.Request().Method == http.MethodPost && c.Request().ContentLength != 0 {
		if err := c.Bind(&body); err != nil {
			return err
		}
		if err := c.Validate(&body); err != nil {
			return err
		}
	}

	req := app.RunRequest{DryRun: body.DryRun}
	for _, raw := range body.TenantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid tenant id %q", raw))
		}
		req.TenantIDs = append(req.TenantIDs, id)
	}

	summary, err := h.runner.SendSmartReminders(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, smartRemindersResponse{
		NotificationsSent: summary.NotificationsSent,
		Partial:           summary.Partial,
	})
}

func (h *reminderHandler) sendReminders(c echo.Context) error {
	summary, err := h.runner.SendDueTodayReminders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, remindersResponse{
		Message:           fmt.Sprintf("Reminders sent to %d tenants", summary.NotificationsSent),
		NotificationsSent: summary.NotificationsSent,
	})
}
