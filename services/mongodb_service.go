package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"permafrost/config"
	"permafrost/models"
)

type MongoDBService struct {
	client  *mongo.Client
	db      *mongo.Database
	enabled bool
}

const (
	CollectionDecisionRecords = "decision_records"
	CollectionAlertRules      = "alert_rules"
	CollectionAlertHistory    = "alert_history"
)

func NewMongoDBService(cfg *config.Config) (*MongoDBService, error) {
	if !cfg.MongoDB.Enabled {
		log.Println("MongoDB is disabled in configuration")
		return &MongoDBService{enabled: false}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoDB.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDB.Database)

	service := &MongoDBService{
		client:  client,
		db:      db,
		enabled: true,
	}

	if err := service.createIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	log.Printf("MongoDB connected successfully to database: %s", cfg.MongoDB.Database)
	return service, nil
}

func (m *MongoDBService) createIndexes(ctx context.Context) error {
	if !m.enabled {
		return nil
	}

	// Decision records are queried newest-first and by scenario.
	_, err := m.db.Collection(CollectionDecisionRecords).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("timestamp_desc"),
		},
		{
			Keys:    bson.D{{Key: "scenario_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("scenario_timestamp"),
		},
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(CollectionAlertRules).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("rule_id").SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(CollectionAlertHistory).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	})

	return err
}

func (m *MongoDBService) Close() error {
	if !m.enabled || m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Enabled reports whether a live MongoDB connection backs this service.
func (m *MongoDBService) Enabled() bool {
	return m != nil && m.enabled
}

// ============================================
// DECISION RECORDS (append-only)
// ============================================

func (m *MongoDBService) InsertDecisionRecord(ctx context.Context, record *models.DecisionRecord) error {
	if !m.enabled {
		return nil
	}
	_, err := m.db.Collection(CollectionDecisionRecords).InsertOne(ctx, record)
	return err
}

// GetDecisionRecords returns the newest records first, capped at limit.
func (m *MongoDBService) GetDecisionRecords(ctx context.Context, limit int64) ([]models.DecisionRecord, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cursor, err := m.db.Collection(CollectionDecisionRecords).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.DecisionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetDecisionRecordsRange returns records for a time window, oldest first.
func (m *MongoDBService) GetDecisionRecordsRange(ctx context.Context, start, end time.Time) ([]models.DecisionRecord, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	filter := bson.M{"timestamp": bson.M{"$gte": start, "$lte": end}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := m.db.Collection(CollectionDecisionRecords).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.DecisionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ============================================
// ALERT RULES + HISTORY
// ============================================

func (m *MongoDBService) UpsertAlertRule(ctx context.Context, rule *models.AlertRule) error {
	if !m.enabled {
		return nil
	}

	filter := bson.M{"id": rule.ID}
	opts := options.Replace().SetUpsert(true)
	_, err := m.db.Collection(CollectionAlertRules).ReplaceOne(ctx, filter, rule, opts)
	return err
}

func (m *MongoDBService) DeleteAlertRule(ctx context.Context, id string) error {
	if !m.enabled {
		return nil
	}
	_, err := m.db.Collection(CollectionAlertRules).DeleteOne(ctx, bson.M{"id": id})
	return err
}

func (m *MongoDBService) GetAlertRules(ctx context.Context) ([]models.AlertRule, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	cursor, err := m.db.Collection(CollectionAlertRules).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []models.AlertRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (m *MongoDBService) InsertAlertEvent(ctx context.Context, event *models.AlertEvent) error {
	if !m.enabled {
		return nil
	}
	_, err := m.db.Collection(CollectionAlertHistory).InsertOne(ctx, event)
	return err
}

func (m *MongoDBService) GetAlertEvents(ctx context.Context, limit int64) ([]models.AlertEvent, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cursor, err := m.db.Collection(CollectionAlertHistory).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.AlertEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
