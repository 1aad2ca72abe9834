package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndList(t *testing.T) {
	j := openTemp(t)

	first, err := j.Record(Run{Source: "a.drl", Tools: []ToolRun{{Label: "T1 0.4mm", File: "rnl1-T1.out", Holes: 7, Blocks: 2}}})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if first.ID == "" || first.Time.IsZero() || first.Seq != 1 {
		t.Errorf("unexpected stored run %+v", first)
	}

	second, err := j.Record(Run{ID: "fixed-id", Source: "b.drl", Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if second.ID != "fixed-id" || second.Seq != 2 {
		t.Errorf("unexpected stored run %+v", second)
	}

	runs, err := j.Runs(0)
	if err != nil {
		t.Fatalf("Runs error: %v", err)
	}
	var sources []string
	for _, r := range runs {
		sources = append(sources, r.Source)
	}
	if diff := cmp.Diff([]string{"b.drl", "a.drl"}, sources); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if runs[1].Holes() != 7 {
		t.Errorf("got %d holes, want 7", runs[1].Holes())
	}

	limited, err := j.Runs(1)
	if err != nil {
		t.Fatalf("Runs error: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "fixed-id" {
		t.Errorf("unexpected limited runs %+v", limited)
	}
}

func TestGet(t *testing.T) {
	j := openTemp(t)
	stored, err := j.Record(Run{ID: "0123456789", Source: "a.drl"})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}

	tests := []struct {
		name string
		id   string
		err  error
	}{
		{"exact", "0123456789", nil},
		{"prefix", "0123", nil},
		{"short prefix", "01", ErrNoRun},
		{"unknown", "ffff", ErrNoRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.Get(tt.id)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Get(%q) error = %v, want %v", tt.id, err, tt.err)
			}
			if err == nil && got.Seq != stored.Seq {
				t.Errorf("got seq %d, want %d", got.Seq, stored.Seq)
			}
		})
	}
}

func TestGetAmbiguousPrefix(t *testing.T) {
	j := openTemp(t)
	for _, id := range []string{"abcd1111", "abcd2222", "abcd"} {
		if _, err := j.Record(Run{ID: id, Source: id + ".drl"}); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	tests := []struct {
		name string
		id   string
		want string
		err  error
	}{
		{"shared prefix", "abcd1", "abcd1111", nil},
		{"prefix too short", "abc", "", ErrNoRun},
		{"exact id also a prefix", "abcd", "abcd", nil},
		{"other prefix", "abcd2", "abcd2222", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.Get(tt.id)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Get(%q) error = %v, want %v", tt.id, err, tt.err)
			}
			if got.ID != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.id, got.ID, tt.want)
			}
		})
	}

	if _, err := j.Record(Run{ID: "abcd1112", Source: "x.drl"}); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if _, err := j.Get("abcd111"); !errors.Is(err, ErrAmbiguousRun) {
		t.Errorf("Get(%q) error = %v, want %v", "abcd111", err, ErrAmbiguousRun)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if _, err := j.Record(Run{Source: "a.drl"}); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer j.Close()
	runs, err := j.Runs(0)
	if err != nil {
		t.Fatalf("Runs error: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs, want 1", len(runs))
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b || len(a) != 36 {
		t.Errorf("unexpected ids %q %q", a, b)
	}
}
