package culler_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/warrenZY/folderpad/internal/broker"
	"github.com/warrenZY/folderpad/internal/culler"
	"github.com/warrenZY/folderpad/internal/model"
)

func newProbeFixture(t *testing.T) (*broker.Local, string) {
	t.Helper()
	dir := t.TempDir()
	registry := broker.NewJSONRegistry(filepath.Join(dir, "grants.json"))
	return broker.NewLocal(registry), dir
}

func mintFor(t *testing.T, b *broker.Local, path string) string {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}
	b.PrimePick(path)
	folder, err := b.PickFolder()
	if err != nil {
		t.Fatalf("failed to pick folder: %v", err)
	}
	token, err := b.MintToken(folder)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

func TestProbeTokens_ClassifiesOutcomes(t *testing.T) {
	b, dir := newProbeFixture(t)

	healthy := mintFor(t, b, filepath.Join(dir, "alive"))
	revoked := mintFor(t, b, filepath.Join(dir, "doomed"))
	if err := os.RemoveAll(filepath.Join(dir, "doomed")); err != nil {
		t.Fatalf("failed to remove folder: %v", err)
	}

	tokens := []string{healthy, revoked, "never-minted"}
	results := culler.ProbeTokens(b, tokens, 2, nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Results keep input order
	if results[0].Status != culler.Healthy {
		t.Errorf("expected %s healthy, got status %d (%s)", healthy, results[0].Status, results[0].Error)
	}
	if results[0].Path == "" {
		t.Error("expected resolved path on healthy result")
	}
	if results[1].Status != culler.Revoked {
		t.Errorf("expected %s revoked, got status %d", revoked, results[1].Status)
	}
	if results[2].Status != culler.Lost {
		t.Errorf("expected never-minted token lost, got status %d", results[2].Status)
	}
	if results[2].Error == "" {
		t.Error("expected reason on lost result")
	}
}

func TestProbeTokens_EmptyInput(t *testing.T) {
	b, _ := newProbeFixture(t)

	results := culler.ProbeTokens(b, nil, 4, nil)

	if results != nil {
		t.Errorf("expected nil results for empty input, got %v", results)
	}
}

func TestProbeTokens_ReportsProgress(t *testing.T) {
	b, dir := newProbeFixture(t)
	tokens := []string{
		mintFor(t, b, filepath.Join(dir, "a")),
		mintFor(t, b, filepath.Join(dir, "b")),
		mintFor(t, b, filepath.Join(dir, "c")),
	}

	var mu sync.Mutex
	var calls []int
	results := culler.ProbeTokens(b, tokens, 2, func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		calls = append(calls, completed)
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if len(calls) != 3 {
		t.Fatalf("expected 3 progress calls, got %d", len(calls))
	}
	// Completed counts are monotonically increasing under the progress lock
	for i, c := range calls {
		if c != i+1 {
			t.Errorf("expected progress %d at call %d, got %d", i+1, i, c)
		}
	}
}

func TestOrphans(t *testing.T) {
	grants := []model.Grant{
		{Token: "kept", Path: "/a"},
		{Token: "dangling", Path: "/b"},
	}
	tokens := model.NewTokenSet()
	tokens = tokens.Add("kept")

	orphans := culler.Orphans(grants, tokens)

	if len(orphans) != 1 {
		t.Fatalf("expected 1 orphan, got %d", len(orphans))
	}
	if orphans[0].Token != "dangling" {
		t.Errorf("expected dangling orphan, got %s", orphans[0].Token)
	}
}

func TestOrphans_NoneWhenAllReferenced(t *testing.T) {
	grants := []model.Grant{{Token: "kept", Path: "/a"}}
	tokens := model.NewTokenSet()
	tokens = tokens.Add("kept")

	if orphans := culler.Orphans(grants, tokens); len(orphans) != 0 {
		t.Errorf("expected no orphans, got %v", orphans)
	}
}
