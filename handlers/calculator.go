package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"permafrost/models"
	"permafrost/services"
	"permafrost/utils"
)

// CalculatorHandlers exposes ad-hoc restore math that doesn't need a saved
// scenario: single-profile evaluation and the bandwidth/efficiency sweep.
type CalculatorHandlers struct {
	calcService        *services.CalculatorService
	sensitivityService *services.SensitivityService
	pricingService     *services.PricingService
}

func NewCalculatorHandlers(calcService *services.CalculatorService, sensitivityService *services.SensitivityService, pricingService *services.PricingService) *CalculatorHandlers {
	return &CalculatorHandlers{
		calcService:        calcService,
		sensitivityService: sensitivityService,
		pricingService:     pricingService,
	}
}

type restoreRequest struct {
	Tier          string  `json:"tier"`
	Destination   string  `json:"destination"`
	SizeGB        float64 `json:"size_gb"`
	BandwidthMbps float64 `json:"bandwidth_mbps"`
	Efficiency    float64 `json:"efficiency"`

	// Optional. When present the response includes the downtime and risk
	// stages on top of the restore breakdown.
	Parameters *models.ScenarioParameters `json:"parameters,omitempty"`
}

// ComputeRestore evaluates one restore profile. With business parameters in
// the body it runs the full restore -> downtime -> risk pipeline; without
// them it returns the time/cost breakdown only.
func (ch *CalculatorHandlers) ComputeRestore(c echo.Context) error {
	var req restoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	profile, err := models.NewRestoreProfile(req.Tier, req.Destination, req.SizeGB, req.BandwidthMbps, req.Efficiency)
	if err != nil {
		return domainError(c, err)
	}

	if req.Parameters != nil {
		eval, err := ch.calcService.EvaluateProfile(profile, *req.Parameters)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(http.StatusOK, eval)
	}

	result, err := ch.calcService.ComputeRestore(profile)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type sensitivityRequest struct {
	Tier          string  `json:"tier"`
	Destination   string  `json:"destination"`
	SizeGB        float64 `json:"size_gb"`
	BandwidthMbps float64 `json:"bandwidth_mbps"`
	Efficiency    float64 `json:"efficiency"`

	Bandwidths   []float64 `json:"bandwidths,omitempty"`
	Efficiencies []float64 `json:"efficiencies,omitempty"`
	RTOHours     float64   `json:"rto_hours,omitempty"`
}

// ComputeSensitivity sweeps bandwidth and efficiency for one profile.
// Empty axes fall back to the standard grid; rto_hours 0 disables the
// miss flag. Supports ?format=csv and ?format=table.
func (ch *CalculatorHandlers) ComputeSensitivity(c echo.Context) error {
	var req sensitivityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	profile, err := models.NewRestoreProfile(req.Tier, req.Destination, req.SizeGB, req.BandwidthMbps, req.Efficiency)
	if err != nil {
		return domainError(c, err)
	}

	grid, err := ch.sensitivityService.Grid(profile, req.Bandwidths, req.Efficiencies, req.RTOHours)
	if err != nil {
		return domainError(c, err)
	}

	switch formatParam(c) {
	case utils.FormatCSV:
		data, err := utils.SensitivityCSV(grid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.Blob(http.StatusOK, "text/csv", data)
	case utils.FormatTable:
		return c.String(http.StatusOK, utils.SensitivityTable(grid))
	case utils.FormatYAML:
		data, err := utils.RenderYAML(grid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.Blob(http.StatusOK, "application/x-yaml", data)
	default:
		return c.JSON(http.StatusOK, grid)
	}
}

// GetPricing returns the effective pricing table after overrides.
func (ch *CalculatorHandlers) GetPricing(c echo.Context) error {
	return c.JSON(http.StatusOK, ch.pricingService.Table())
}
