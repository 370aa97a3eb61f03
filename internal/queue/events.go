package queue

import "go.mongodb.org/mongo-driver/bson/primitive"

// Exchange is the topic exchange all service events go to.
const Exchange = "phishformer.events"

type UserRegistered struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
}

type UserLoggedIn struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
}

type UserDeleted struct {
	UserID       string `json:"user_id"`
	ScansRemoved int64  `json:"scans_removed"`
}

type ScanRecorded struct {
	ScanID primitive.ObjectID `json:"scan_id"`
	UserID string             `json:"user_id"`
	URL    string             `json:"url"`
	Status string             `json:"status"`
}
