package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/Kasamvinay/phishformer/internal/domain"
	"github.com/Kasamvinay/phishformer/internal/repo"
)

func newTestStore(t *testing.T) (*repo.Store, context.Context) {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}
	t.Cleanup(func() { _ = mc.Terminate(ctx) })

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "phishformer_repo_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(ctx) })

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}
	return store, ctx
}

func TestListScansCapsAndIsolates(t *testing.T) {
	store, ctx := newTestStore(t)

	const seeded = 230
	for i := 0; i < seeded; i++ {
		sc := &domain.Scan{
			UserID:       "owner",
			URL:          fmt.Sprintf("http://site-%03d.example", i),
			Status:       domain.StatusSafe,
			Confidence:   0.5,
			AnalysisTime: 10,
		}
		if err := store.InsertScan(ctx, sc); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	// a second owner's record must never leak into the listing
	if err := store.InsertScan(ctx, &domain.Scan{
		UserID: "other", URL: "http://other.example",
		Status: domain.StatusPhishing, Confidence: 0.9, AnalysisTime: 5,
	}); err != nil {
		t.Fatal(err)
	}

	out, err := store.ListScans(ctx, "owner", repo.ScanFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 200 {
		t.Fatalf("listing must cap at 200, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Timestamp.After(out[i-1].Timestamp) {
			t.Fatalf("not newest-first at %d: %v > %v", i, out[i].Timestamp, out[i-1].Timestamp)
		}
	}
	for _, sc := range out {
		if sc.UserID != "owner" {
			t.Fatalf("foreign record leaked: %+v", sc)
		}
	}
}
