package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A user owns at most one password credential and any number of linked
// external identities. Google-only accounts have Password == nil.
type User struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"           json:"id"`
	Email         string              `bson:"email"                   json:"email"`
	Name          string              `bson:"name"                    json:"name"`
	Picture       string              `bson:"picture,omitempty"       json:"picture,omitempty"`
	Password      *PasswordCredential `bson:"password,omitempty"      json:"-"`
	Identities    []ExternalIdentity  `bson:"identities,omitempty"    json:"-"`
	Notifications *NotificationPrefs  `bson:"notifications,omitempty" json:"notifications,omitempty"`
	Privacy       *PrivacyPrefs       `bson:"privacy,omitempty"       json:"privacy,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"              json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at"              json:"updated_at"`
}

type PasswordCredential struct {
	Hash string `bson:"hash" json:"-"`
}

// ExternalIdentity links a provider subject to the account ("google" + sub).
type ExternalIdentity struct {
	Provider string `bson:"provider" json:"provider"`
	Subject  string `bson:"subject"  json:"subject"`
}

type NotificationPrefs struct {
	EmailAlerts     bool `bson:"emailAlerts"     json:"emailAlerts"`
	WeeklyReports   bool `bson:"weeklyReports"   json:"weeklyReports"`
	SecurityUpdates bool `bson:"securityUpdates" json:"securityUpdates"`
}

type PrivacyPrefs struct {
	ShareAnalytics bool `bson:"shareAnalytics" json:"shareAnalytics"`
	PublicProfile  bool `bson:"publicProfile"  json:"publicProfile"`
}

func (u *User) HasPassword() bool { return u.Password != nil && u.Password.Hash != "" }

// Identity returns the linked identity for a provider, if any.
func (u *User) Identity(provider string) (ExternalIdentity, bool) {
	for _, id := range u.Identities {
		if id.Provider == provider {
			return id, true
		}
	}
	return ExternalIdentity{}, false
}

func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{EmailAlerts: true, WeeklyReports: true, SecurityUpdates: true}
}

func DefaultPrivacyPrefs() PrivacyPrefs {
	return PrivacyPrefs{ShareAnalytics: false, PublicProfile: false}
}

// NotificationsOrDefault fills the documented defaults for documents that
// predate the preference blocks.
func (u *User) NotificationsOrDefault() NotificationPrefs {
	if u.Notifications != nil {
		return *u.Notifications
	}
	return DefaultNotificationPrefs()
}

func (u *User) PrivacyOrDefault() PrivacyPrefs {
	if u.Privacy != nil {
		return *u.Privacy
	}
	return DefaultPrivacyPrefs()
}
