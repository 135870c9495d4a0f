package services

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"permafrost/models"
)

// recentWindow is how many decisions the in-memory hot window keeps. Older
// records come from MongoDB when it is available.
const recentWindow = 200

// HistoryService is the append-only decision log. Every evaluated decision
// is recorded with its inputs and headline outputs as flat fields, so later
// runs can ask "have we priced something like this before?". Writes never
// fail the caller: history is a side channel, not part of the result.
type HistoryService struct {
	mongo *MongoDBService

	mutex  sync.RWMutex
	recent []models.DecisionRecord
}

func NewHistoryService(mongo *MongoDBService) *HistoryService {
	return &HistoryService{
		mongo:  mongo,
		recent: make([]models.DecisionRecord, 0, recentWindow),
	}
}

// Record appends one decision. The record id/timestamp are assigned here.
func (hs *HistoryService) Record(record models.DecisionRecord) models.DecisionRecord {
	record.ID = uuid.NewString()
	record.Timestamp = time.Now().UTC()

	hs.mutex.Lock()
	hs.recent = append(hs.recent, record)
	if len(hs.recent) > recentWindow {
		hs.recent = hs.recent[len(hs.recent)-recentWindow:]
	}
	hs.mutex.Unlock()

	if hs.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.mongo.InsertDecisionRecord(ctx, &record); err != nil {
			log.Printf("Failed to persist decision record to MongoDB: %v", err)
		}
	}
	return record
}

// RecordEvaluation flattens a strategy evaluation into a decision record and
// appends it.
func (hs *HistoryService) RecordEvaluation(scenarioID string, params models.ScenarioParameters, eval models.StrategyEvaluation) models.DecisionRecord {
	return hs.Record(models.DecisionRecord{
		ScenarioID:               scenarioID,
		StrategyName:             eval.StrategyName,
		Tier:                     string(eval.Profile.Tier),
		Destination:              string(eval.Profile.Destination),
		SizeGB:                   eval.Profile.SizeGB,
		BandwidthMbps:            eval.Profile.BandwidthMbps,
		Efficiency:               eval.Profile.Efficiency,
		RTOHours:                 params.RTOMinutes / 60,
		TotalTimeHours:           eval.Restore.TotalTimeHours,
		EndToEndDowntimeHours:    eval.Downtime.EndToEndDowntimeHours,
		RTOMissHours:             eval.Downtime.EndToEndRTOMissHours,
		TotalCostUSD:             eval.Restore.TotalCostUSD,
		MonthlyStorageUSD:        eval.Restore.MonthlyStorageUSD,
		CostPerMinuteOutage:      params.CostPerMinuteOutage,
		DowntimeLossUSD:          eval.Risk.DowntimeLossUSD,
		IncidentFrequencyPerYear: params.IncidentFrequencyPerYear,
		PlanningHorizonYears:     params.PlanningHorizonYears,
		ExpectedHorizonLossUSD:   eval.Risk.ExpectedRiskOverHorizonUSD,
	})
}

// GetHistory returns recent decisions, newest first. MongoDB is preferred
// when it can serve more than the hot window holds.
func (hs *HistoryService) GetHistory(limit int) []models.DecisionRecord {
	if limit <= 0 {
		limit = 50
	}

	if hs.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		records, err := hs.mongo.GetDecisionRecords(ctx, int64(limit))
		if err != nil {
			log.Printf("Error fetching decision history from MongoDB: %v", err)
			return hs.inMemoryHistory(limit)
		}
		return records
	}

	return hs.inMemoryHistory(limit)
}

// GetHistoryRange returns decisions whose timestamp falls inside
// [start, end], oldest first. MongoDB serves the full log when available;
// otherwise the hot window is filtered.
func (hs *HistoryService) GetHistoryRange(start, end time.Time) []models.DecisionRecord {
	if hs.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		records, err := hs.mongo.GetDecisionRecordsRange(ctx, start, end)
		if err != nil {
			log.Printf("Error fetching decision history range from MongoDB: %v", err)
			return hs.inMemoryHistoryRange(start, end)
		}
		return records
	}

	return hs.inMemoryHistoryRange(start, end)
}

func (hs *HistoryService) inMemoryHistoryRange(start, end time.Time) []models.DecisionRecord {
	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	var out []models.DecisionRecord
	for _, rec := range hs.recent {
		if rec.Timestamp.Before(start) || rec.Timestamp.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (hs *HistoryService) inMemoryHistory(limit int) []models.DecisionRecord {
	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	n := len(hs.recent)
	if limit > n {
		limit = n
	}

	// Newest first.
	out := make([]models.DecisionRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, hs.recent[i])
	}
	return out
}

// FindSimilar scores the current decision against stored history with cosine
// similarity over the flat feature vector and returns the top k matches with
// a strictly positive score.
func (hs *HistoryService) FindSimilar(current models.DecisionRecord, k int) []models.SimilarDecision {
	if k <= 0 {
		k = 3
	}

	history := hs.GetHistory(recentWindow)
	if len(history) == 0 {
		return nil
	}

	currentVec := current.FeatureVector()
	scored := make([]models.SimilarDecision, 0, len(history))
	for _, rec := range history {
		if rec.ID == current.ID {
			continue
		}
		sim := cosineSimilarity(currentVec, rec.FeatureVector())
		if sim > 0 {
			scored = append(scored, models.SimilarDecision{Record: rec, Similarity: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
