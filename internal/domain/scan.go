package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scan verdicts form a closed set; anything else is rejected at the boundary.
const (
	StatusSafe       = "safe"
	StatusPhishing   = "phishing"
	StatusSuspicious = "suspicious"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusSafe, StatusPhishing, StatusSuspicious:
		return true
	}
	return false
}

// Scan is append-only: written once on creation, never mutated.
type Scan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"userId"        json:"userId"`
	URL          string             `bson:"url"           json:"url"`
	Status       string             `bson:"status"        json:"status"`
	Confidence   float64            `bson:"confidence"    json:"confidence"`
	AnalysisTime float64            `bson:"analysisTime"  json:"analysisTime"`
	Threats      []string           `bson:"threats"       json:"threats"`
	Timestamp    time.Time          `bson:"timestamp"     json:"timestamp"`
}
