package search

import (
	"testing"

	"github.com/seivan/hoard/internal/trove"
)

func sampleEntries() []trove.CommandEntry {
	return []trove.CommandEntry{
		{Name: "list-files", Namespace: "default", Command: "ls -la", Tags: []string{"fs"}},
		{Name: "disk-usage", Namespace: "default", Command: "du -sh", Tags: []string{"fs", "size"}},
		{Name: "find-large", Namespace: "default", Command: "find . -size +1G", Description: "locate big files"},
		{Name: "pods", Namespace: "k8s", Command: "kubectl get pods"},
		{Name: "logs", Namespace: "k8s", Command: "kubectl logs -f", Tags: []string{"debug"}},
	}
}

func TestFilterEmptyQueryReturnsNamespaceInOrder(t *testing.T) {
	got := Filter(sampleEntries(), "default", "")
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	want := []string{"list-files", "disk-usage", "find-large"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("expected entry %d to be %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestFilterScopesToNamespace(t *testing.T) {
	got := Filter(sampleEntries(), "k8s", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	for _, e := range got {
		if e.Namespace != "k8s" {
			t.Fatalf("expected only k8s entries, got namespace %q", e.Namespace)
		}
	}
}

func TestFilterMatchesTagsAndDescription(t *testing.T) {
	got := Filter(sampleEntries(), "default", "SIZE")
	if len(got) != 1 || got[0].Name != "disk-usage" {
		t.Fatalf("expected tag match on disk-usage, got %v", got)
	}
	got = Filter(sampleEntries(), "default", "big files")
	if len(got) != 1 || got[0].Name != "find-large" {
		t.Fatalf("expected description match on find-large, got %v", got)
	}
}

func TestFilterNamePrefixTierFirst(t *testing.T) {
	entries := []trove.CommandEntry{
		{Name: "restart-db", Namespace: "default", Description: "does a git thing"},
		{Name: "git-push", Namespace: "default"},
		{Name: "git-pull", Namespace: "default"},
	}
	got := Filter(entries, "default", "git")
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	want := []string{"git-push", "git-pull", "restart-db"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("expected entry %d to be %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestFilterNoMatches(t *testing.T) {
	if got := Filter(sampleEntries(), "default", "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestBestMatchIndexTiers(t *testing.T) {
	entries := []trove.CommandEntry{
		{Name: "deploy"},
		{Name: "deploy-prod"},
		{Name: "redeploy"},
	}
	if idx := BestMatchIndex(entries, "deploy"); idx != 0 {
		t.Fatalf("expected exact match at 0, got %d", idx)
	}
	if idx := BestMatchIndex(entries, "deploy-"); idx != 1 {
		t.Fatalf("expected prefix match at 1, got %d", idx)
	}
	if idx := BestMatchIndex(entries, "edeploy"); idx != 2 {
		t.Fatalf("expected substring match at 2, got %d", idx)
	}
	if idx := BestMatchIndex(nil, "deploy"); idx != -1 {
		t.Fatalf("expected -1 for empty list, got %d", idx)
	}
	if idx := BestMatchIndex(entries, ""); idx != 0 {
		t.Fatalf("expected 0 for empty query, got %d", idx)
	}
}

func TestBestMatchIndexFuzzyFallback(t *testing.T) {
	entries := []trove.CommandEntry{
		{Name: "backup-home"},
		{Name: "deploy-prod"},
	}
	if idx := BestMatchIndex(entries, "dply"); idx != 1 {
		t.Fatalf("expected fuzzy match at 1, got %d", idx)
	}
}
