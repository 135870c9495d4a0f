package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"permafrost/models"
)

const alertHistoryWindow = 500

// AlertService holds threshold rules and checks them against every scenario
// evaluation. Rules live in memory, mirrored to MongoDB when available;
// firings go to the alert history and, when configured, to Discord.
type AlertService struct {
	rules      map[string]*models.AlertRule
	history    []models.AlertEvent
	rulesMutex sync.RWMutex

	mongo      *MongoDBService
	discordBot *DiscordBotService
}

func NewAlertService(mongo *MongoDBService, discordBot *DiscordBotService) *AlertService {
	return &AlertService{
		rules:      make(map[string]*models.AlertRule),
		history:    make([]models.AlertEvent, 0),
		mongo:      mongo,
		discordBot: discordBot,
	}
}

// LoadRulesFromDB restores persisted rules at startup.
func (as *AlertService) LoadRulesFromDB() error {
	if !as.mongo.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rules, err := as.mongo.GetAlertRules(ctx)
	if err != nil {
		return err
	}

	as.rulesMutex.Lock()
	for i := range rules {
		rule := rules[i]
		as.rules[rule.ID] = &rule
	}
	as.rulesMutex.Unlock()

	log.Printf("Loaded %d alert rules from MongoDB", len(rules))
	return nil
}

// CreateRule registers a new threshold rule.
func (as *AlertService) CreateRule(rule *models.AlertRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	as.rulesMutex.Lock()
	as.rules[rule.ID] = rule
	as.rulesMutex.Unlock()

	as.persistRule(rule)
	return nil
}

// UpdateRule replaces an existing rule.
func (as *AlertService) UpdateRule(id string, rule *models.AlertRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	as.rulesMutex.Lock()
	existing, ok := as.rules[id]
	if !ok {
		as.rulesMutex.Unlock()
		return fmt.Errorf("alert rule not found: %s", id)
	}
	rule.ID = id
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now()
	as.rules[id] = rule
	as.rulesMutex.Unlock()

	as.persistRule(rule)
	return nil
}

// DeleteRule removes a rule.
func (as *AlertService) DeleteRule(id string) error {
	as.rulesMutex.Lock()
	_, ok := as.rules[id]
	delete(as.rules, id)
	as.rulesMutex.Unlock()

	if !ok {
		return fmt.Errorf("alert rule not found: %s", id)
	}

	if as.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := as.mongo.DeleteAlertRule(ctx, id); err != nil {
			log.Printf("Failed to delete alert rule from MongoDB: %v", err)
		}
	}
	return nil
}

// GetRule returns one rule.
func (as *AlertService) GetRule(id string) (*models.AlertRule, bool) {
	as.rulesMutex.RLock()
	defer as.rulesMutex.RUnlock()
	rule, ok := as.rules[id]
	return rule, ok
}

// ListRules returns all rules.
func (as *AlertService) ListRules() []models.AlertRule {
	as.rulesMutex.RLock()
	defer as.rulesMutex.RUnlock()

	out := make([]models.AlertRule, 0, len(as.rules))
	for _, rule := range as.rules {
		out = append(out, *rule)
	}
	return out
}

// GetAlertHistory returns recent firings, newest first.
func (as *AlertService) GetAlertHistory(limit int) []models.AlertEvent {
	if limit <= 0 {
		limit = 50
	}

	if as.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		events, err := as.mongo.GetAlertEvents(ctx, int64(limit))
		if err == nil {
			return events
		}
		log.Printf("Error fetching alert history from MongoDB: %v", err)
	}

	as.rulesMutex.RLock()
	defer as.rulesMutex.RUnlock()

	n := len(as.history)
	if limit > n {
		limit = n
	}
	out := make([]models.AlertEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, as.history[i])
	}
	return out
}

// CheckEvaluations runs every enabled rule against a scenario's evaluations.
// This is called after results are final and never modifies them.
func (as *AlertService) CheckEvaluations(scenarioID string, evals []models.StrategyEvaluation) []models.AlertEvent {
	as.rulesMutex.RLock()
	rules := make([]*models.AlertRule, 0, len(as.rules))
	for _, rule := range as.rules {
		if rule.Enabled && (rule.ScenarioID == "" || rule.ScenarioID == scenarioID) {
			rules = append(rules, rule)
		}
	}
	as.rulesMutex.RUnlock()

	var fired []models.AlertEvent
	for _, rule := range rules {
		for _, eval := range evals {
			observed, ok := metricValue(rule.Metric, eval)
			if !ok || observed <= rule.Threshold {
				continue
			}

			event := models.AlertEvent{
				RuleID:       rule.ID,
				RuleName:     rule.Name,
				ScenarioID:   scenarioID,
				StrategyName: eval.StrategyName,
				Metric:       rule.Metric,
				Threshold:    rule.Threshold,
				Observed:     observed,
				Message: fmt.Sprintf("%s: strategy %q has %s = %.2f, above threshold %.2f",
					scenarioID, eval.StrategyName, rule.Metric, observed, rule.Threshold),
				Timestamp: time.Now(),
			}
			fired = append(fired, event)
			as.dispatch(event)
		}
	}
	return fired
}

// TestFire pushes a synthetic event through the full dispatch path so
// operators can verify persistence and Discord wiring without waiting for a
// real threshold breach.
func (as *AlertService) TestFire() models.AlertEvent {
	event := models.AlertEvent{
		RuleID:       "test",
		RuleName:     "test",
		ScenarioID:   "test",
		StrategyName: "test",
		Metric:       models.AlertMetricRTOMissHours,
		Message:      "Test alert: dispatch path check",
		Timestamp:    time.Now(),
	}
	as.dispatch(event)
	return event
}

func (as *AlertService) dispatch(event models.AlertEvent) {
	as.rulesMutex.Lock()
	as.history = append(as.history, event)
	if len(as.history) > alertHistoryWindow {
		as.history = as.history[len(as.history)-alertHistoryWindow:]
	}
	as.rulesMutex.Unlock()

	if as.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := as.mongo.InsertAlertEvent(ctx, &event); err != nil {
			log.Printf("Failed to persist alert event to MongoDB: %v", err)
		}
	}

	if as.discordBot.Enabled() {
		if err := as.discordBot.SendAlertEvent(&event); err != nil {
			log.Printf("Failed to send Discord alert: %v", err)
		}
	} else {
		log.Printf("ALERT %s", event.Message)
	}
}

func (as *AlertService) persistRule(rule *models.AlertRule) {
	if !as.mongo.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := as.mongo.UpsertAlertRule(ctx, rule); err != nil {
		log.Printf("Failed to persist alert rule to MongoDB: %v", err)
	}
}

func validateRule(rule *models.AlertRule) error {
	if rule == nil || rule.Name == "" {
		return fmt.Errorf("alert rule requires a name")
	}
	switch rule.Metric {
	case models.AlertMetricRTOMissHours, models.AlertMetricHorizonRiskUSD, models.AlertMetricEventRiskUSD:
	default:
		return fmt.Errorf("unsupported alert metric: %s", rule.Metric)
	}
	if rule.Threshold < 0 {
		return fmt.Errorf("alert threshold must be >= 0")
	}
	return nil
}

func metricValue(metric string, eval models.StrategyEvaluation) (float64, bool) {
	switch metric {
	case models.AlertMetricRTOMissHours:
		return eval.Downtime.EndToEndRTOMissHours, true
	case models.AlertMetricHorizonRiskUSD:
		return eval.Risk.ExpectedRiskOverHorizonUSD, true
	case models.AlertMetricEventRiskUSD:
		return eval.Risk.TotalRiskPerEventUSD, true
	}
	return 0, false
}
