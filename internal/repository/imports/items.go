package importitems

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	mg "lending_docs/internal/config/connections/mongo"
	"lending_docs/internal/ports"
)

const ImportRecordItemsCollection = "import_record_items"

type Item struct {
	ImportRecordID string    `bson:"import_record_id" json:"import_record_id"`
	ModelType      string    `bson:"model_type" json:"model_type"`
	ModelID        string    `bson:"model_id" json:"model_id"`
	Payload        string    `bson:"payload" json:"payload"`
	Status         string    `bson:"status" json:"status"`
	Errors         string    `bson:"errors" json:"errors"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Items writes per-row import outcomes. Write failures are logged, never
// returned, so a flaky audit store cannot stop an import.
type Items struct {
	m   *mg.Mongo
	log *zap.Logger
}

func NewItems(m *mg.Mongo, log *zap.Logger) *Items {
	if log == nil {
		log = zap.NewNop()
	}
	return &Items{m: m, log: log}
}

func (i *Items) Insert(ctx context.Context, item Item) error {
	if !i.m.Available() {
		return mongo.ErrClientDisconnected
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	_, err := i.m.Database.Collection(ImportRecordItemsCollection).InsertOne(ctx, item)
	return err
}

func (i *Items) LogItem(ctx context.Context, p ports.ImportItem) {
	if !i.m.Available() {
		return
	}
	b, _ := json.Marshal(p.Payload)
	if err := i.Insert(ctx, Item{
		ImportRecordID: p.ImportRecordID,
		ModelType:      p.ModelType,
		ModelID:        p.ModelID,
		Payload:        string(b),
		Status:         p.Status,
		Errors:         p.Errors,
	}); err != nil {
		i.log.Error("[PROC][MONGO] item insert failed",
			zap.String("model_type", p.ModelType),
			zap.String("model_id", p.ModelID),
			zap.String("status", p.Status),
			zap.Error(err))
	}
}
