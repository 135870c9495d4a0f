package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"permafrost/models"
)

// Output formats accepted by the ?format= query parameter. JSON is the
// default and handled by Echo directly; this file covers the rest.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
	FormatTable = "table"
)

// RenderYAML marshals any result structure to YAML.
func RenderYAML(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// EvaluationsCSV renders strategy evaluations, one row per strategy, in the
// order given (declaration order by contract).
func EvaluationsCSV(evals []models.StrategyEvaluation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"strategy", "tier", "destination", "size_gb",
		"thaw_time_hours", "transfer_time_hours", "total_time_hours",
		"retrieval_cost_usd", "egress_cost_usd", "total_cost_usd", "monthly_storage_usd",
		"end_to_end_downtime_hours", "restore_only_rto_miss_hours", "end_to_end_rto_miss_hours",
		"downtime_loss_usd", "expected_regulatory_penalty_usd",
		"total_risk_per_event_usd", "expected_risk_over_horizon_usd",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, ev := range evals {
		row := []string{
			ev.StrategyName, string(ev.Profile.Tier), string(ev.Profile.Destination),
			f(ev.Profile.SizeGB),
			f(ev.Restore.ThawTimeHours), f(ev.Restore.TransferTimeHours), f(ev.Restore.TotalTimeHours),
			f(ev.Restore.RetrievalCostUSD), f(ev.Restore.EgressCostUSD), f(ev.Restore.TotalCostUSD),
			f(ev.Restore.MonthlyStorageUSD),
			f(ev.Downtime.EndToEndDowntimeHours), f(ev.Downtime.RestoreOnlyRTOMissHours), f(ev.Downtime.EndToEndRTOMissHours),
			f(ev.Risk.DowntimeLossUSD), f(ev.Risk.ExpectedRegulatoryPenaltyUSD),
			f(ev.Risk.TotalRiskPerEventUSD), f(ev.Risk.ExpectedRiskOverHorizonUSD),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// SensitivityCSV renders grid cells in their deterministic sweep order.
func SensitivityCSV(grid models.SensitivityGrid) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"bandwidth_mbps", "efficiency", "total_time_hours", "rto_missed"}); err != nil {
		return nil, err
	}
	for _, cell := range grid.Cells {
		row := []string{f(cell.BandwidthMbps), f(cell.Efficiency), f(cell.TotalTimeHours), strconv.FormatBool(cell.RTOMissed)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// RankingTable renders the regret table as fixed-width text.
func RankingTable(ranking []models.RankedStrategy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-24s %18s %16s\n", "Rank", "Strategy", "Risk/Event (USD)", "Regret (USD)")
	b.WriteString(strings.Repeat("-", 66) + "\n")
	for _, r := range ranking {
		fmt.Fprintf(&b, "%-4d %-24s %18.2f %16.2f\n", r.Rank, r.StrategyName, r.TotalRiskPerEventUSD, r.RegretUSD)
	}
	return b.String()
}

// SensitivityTable renders the sweep as a bandwidth x efficiency matrix of
// total restore hours, cells flagged with * where the RTO is missed.
func SensitivityTable(grid models.SensitivityGrid) string {
	var b strings.Builder

	b.WriteString("Bandwidth \\ Efficiency")
	for _, eff := range grid.EfficiencyValues {
		fmt.Fprintf(&b, " | %6.2f", eff)
	}
	b.WriteString("\n")

	i := 0
	for _, bw := range grid.BandwidthsMbps {
		fmt.Fprintf(&b, "%17.0f Mbps", bw)
		for range grid.EfficiencyValues {
			cell := grid.Cells[i]
			mark := " "
			if cell.RTOMissed {
				mark = "*"
			}
			fmt.Fprintf(&b, " | %5.1f%s", cell.TotalTimeHours, mark)
			i++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
