package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"permafrost/models"
	"permafrost/utils"
)

// domainError maps engine errors onto HTTP responses. All four typed errors
// are caller mistakes, so they come back as 400 with the error text intact.
func domainError(c echo.Context, err error) error {
	var (
		tierErr     *models.UnknownTierError
		destErr     *models.UnknownDestinationError
		inputErr    *models.InvalidInputError
		scenarioErr *models.ScenarioStructureError
	)
	if errors.As(err, &tierErr) || errors.As(err, &destErr) ||
		errors.As(err, &inputErr) || errors.As(err, &scenarioErr) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// formatParam reads the ?format= negotiation parameter, defaulting to JSON.
func formatParam(c echo.Context) string {
	f := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if f == "" {
		return utils.FormatJSON
	}
	return f
}
