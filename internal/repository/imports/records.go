package importitems

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mg "lending_docs/internal/config/connections/mongo"
)

const ImportRecordsCollection = "import_records"

const (
	StatusParsed     = "parsed"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

var ErrRecordNotFound = errors.New("import record not found")

// RecordFilter narrows List; empty fields match everything.
type RecordFilter struct {
	Type   string
	Status string
}

func (f RecordFilter) query() bson.M {
	m := bson.M{"deleted_at": bson.M{"$exists": false}}
	if f.Type != "" {
		m["type"] = f.Type
	}
	if f.Status != "" {
		m["status"] = f.Status
	}
	return m
}

type Record struct {
	ID        any        `bson:"_id,omitempty" json:"id"`
	UserID    *string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Count     int        `bson:"count" json:"count"`
	Status    string     `bson:"status" json:"status"`
	Errors    *string    `bson:"errors,omitempty" json:"errors,omitempty"`
	Type      string     `bson:"type" json:"type"`
	Path      *string    `bson:"path,omitempty" json:"path,omitempty"`
	Bucket    *string    `bson:"bucket,omitempty" json:"bucket,omitempty"`
	Key       *string    `bson:"key,omitempty" json:"key,omitempty"`
	SizeBytes *int64     `bson:"size_bytes,omitempty" json:"size_bytes,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

type Records struct {
	m *mg.Mongo
}

func NewRecords(m *mg.Mongo) *Records { return &Records{m: m} }

func (r *Records) coll() (*mongo.Collection, error) {
	if !r.m.Available() {
		return nil, mongo.ErrClientDisconnected
	}
	return r.m.Database.Collection(ImportRecordsCollection), nil
}

func (r *Records) Insert(ctx context.Context, rec Record) (string, error) {
	coll, err := r.coll()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = StatusParsed
	}
	rec.ID = nil

	res, err := coll.InsertOne(ctx, rec, options.InsertOne())
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// idFilter matches an ObjectId when id parses as one, else the raw string.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

func (r *Records) FindByID(ctx context.Context, id string) (Record, error) {
	var out Record
	coll, err := r.coll()
	if err != nil {
		return out, err
	}
	err = coll.FindOne(ctx, idFilter(id)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return out, fmt.Errorf("import record %s: %w", id, err)
	}
	return out, nil
}

// List returns the newest records first along with the total match count.
func (r *Records) List(ctx context.Context, f RecordFilter, limit, skip int64) ([]Record, int64, error) {
	coll, err := r.coll()
	if err != nil {
		return nil, 0, err
	}
	filter := f.query()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	recs := make([]Record, 0)
	if err := cur.All(ctx, &recs); err != nil {
		return nil, 0, err
	}
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		total = int64(len(recs))
	}
	return recs, total, nil
}

// Finish stores the final status, the processed row count and an optional
// error message.
func (r *Records) Finish(ctx context.Context, id, status string, count int, errMsg string) error {
	if id == "" {
		return fmt.Errorf("empty import record id")
	}
	coll, err := r.coll()
	if err != nil {
		return err
	}

	set := bson.M{
		"status":     status,
		"count":      count,
		"updated_at": time.Now().UTC(),
	}
	if errMsg != "" {
		set["errors"] = errMsg
	}
	res, err := coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no import_record found with id %s", id)
	}
	return nil
}
