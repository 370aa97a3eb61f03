package domain_test

import (
	"testing"

	"github.com/Kasamvinay/phishformer/internal/domain"
)

func TestCredentialShape(t *testing.T) {
	u := &domain.User{}
	if u.HasPassword() {
		t.Fatal("empty user must not have a password credential")
	}
	u.Password = &domain.PasswordCredential{Hash: "h"}
	if !u.HasPassword() {
		t.Fatal("hash set, HasPassword false")
	}

	if _, ok := u.Identity("google"); ok {
		t.Fatal("no identities linked yet")
	}
	u.Identities = append(u.Identities, domain.ExternalIdentity{Provider: "google", Subject: "sub1"})
	id, ok := u.Identity("google")
	if !ok || id.Subject != "sub1" {
		t.Fatalf("identity lookup: %v %v", id, ok)
	}
}

func TestPreferenceDefaults(t *testing.T) {
	u := &domain.User{}
	n := u.NotificationsOrDefault()
	if !n.EmailAlerts || !n.WeeklyReports || !n.SecurityUpdates {
		t.Fatalf("notification defaults: %+v", n)
	}
	p := u.PrivacyOrDefault()
	if p.ShareAnalytics || p.PublicProfile {
		t.Fatalf("privacy defaults: %+v", p)
	}

	u.Notifications = &domain.NotificationPrefs{EmailAlerts: false, WeeklyReports: true, SecurityUpdates: false}
	if got := u.NotificationsOrDefault(); got.EmailAlerts || !got.WeeklyReports {
		t.Fatalf("stored prefs must win: %+v", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"safe", "phishing", "suspicious"} {
		if !domain.ValidStatus(s) {
			t.Errorf("%q must be valid", s)
		}
	}
	for _, s := range []string{"", "all", "Safe", "malware"} {
		if domain.ValidStatus(s) {
			t.Errorf("%q must be rejected", s)
		}
	}
}
