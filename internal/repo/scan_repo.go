package repo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/Kasamvinay/phishformer/internal/domain"
)

// listScanCap bounds a single listing to keep response sizes sane.
const listScanCap = 200

func (s *Store) InsertScan(ctx context.Context, sc *domain.Scan) error {
	sc.Timestamp = time.Now().UTC()
	if sc.Threats == nil {
		sc.Threats = []string{}
	}
	res, err := s.colScans.InsertOne(ctx, sc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sc.ID = oid
	}
	return nil
}

// ScanFilter narrows a listing to the owner's records: optional exact status
// ("all" and empty mean no filter) and an optional case-insensitive URL
// substring.
type ScanFilter struct {
	Status string
	Query  string
}

func (s *Store) ListScans(ctx context.Context, userID string, f ScanFilter) ([]domain.Scan, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.scans.list",
		tracer.Tag("status", f.Status),
	)
	defer sp.Finish()

	query := bson.M{"userId": userID}
	if f.Status != "" && f.Status != "all" {
		query["status"] = f.Status
	}
	if f.Query != "" {
		query["url"] = bson.M{"$regex": regexp.QuoteMeta(f.Query), "$options": "i"}
	}

	cur, err := s.colScans.Find(ctx, query,
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(listScanCap),
	)
	if err != nil {
		sp.SetTag("error", err)
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Scan{}
	for cur.Next(ctx) {
		var sc domain.Scan
		if err := cur.Decode(&sc); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, cur.Err()
}

// DeleteScansByUser removes every scan owned by a user. Runs before the user
// document delete during account removal.
func (s *Store) DeleteScansByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.colScans.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
