package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"permafrost/models"
	"permafrost/services"
)

// AlertHandlers manages threshold rules and the alert history.
type AlertHandlers struct {
	alertService *services.AlertService
}

func NewAlertHandlers(alertService *services.AlertService) *AlertHandlers {
	return &AlertHandlers{
		alertService: alertService,
	}
}

// ListRules returns all configured rules.
func (ah *AlertHandlers) ListRules(c echo.Context) error {
	return c.JSON(http.StatusOK, ah.alertService.ListRules())
}

// GetRule returns one rule by id.
func (ah *AlertHandlers) GetRule(c echo.Context) error {
	rule, ok := ah.alertService.GetRule(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "alert rule not found: " + c.Param("id")})
	}
	return c.JSON(http.StatusOK, rule)
}

// CreateRule registers a new threshold rule.
func (ah *AlertHandlers) CreateRule(c echo.Context) error {
	var rule models.AlertRule
	if err := c.Bind(&rule); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := ah.alertService.CreateRule(&rule); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rule)
}

// UpdateRule replaces an existing rule.
func (ah *AlertHandlers) UpdateRule(c echo.Context) error {
	var rule models.AlertRule
	if err := c.Bind(&rule); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := ah.alertService.UpdateRule(c.Param("id"), &rule); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rule)
}

// DeleteRule removes a rule.
func (ah *AlertHandlers) DeleteRule(c echo.Context) error {
	if err := ah.alertService.DeleteRule(c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "alert rule deleted"})
}

// TestAlert pushes a synthetic firing through the dispatch path.
func (ah *AlertHandlers) TestAlert(c echo.Context) error {
	return c.JSON(http.StatusOK, ah.alertService.TestFire())
}

// GetAlertHistory returns recent firings, newest first.
func (ah *AlertHandlers) GetAlertHistory(c echo.Context) error {
	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	events := ah.alertService.GetAlertHistory(limit)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}
