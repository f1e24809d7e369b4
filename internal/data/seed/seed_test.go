package seed

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cinegraph/internal/core/errors"
)

const sampleDataset = `{
  "movies": [
    {"title": "The Matrix", "released": 1999, "tagline": "Welcome to the Real World"},
    {"title": "Inception", "released": 2010}
  ],
  "people": [
    {"name": "Keanu Reeves", "born": 1964},
    {"name": "Leonardo DiCaprio"}
  ],
  "genres": ["Sci-Fi"],
  "studios": ["Warner Bros."],
  "acted_in": [
    {"person": "Keanu Reeves", "movie": "The Matrix", "roles": ["Neo"]}
  ],
  "directed": [],
  "has_genre": [
    {"movie": "The Matrix", "genre": "Sci-Fi"},
    {"movie": "Inception", "genre": "Sci-Fi"}
  ],
  "produced": [
    {"studio": "Warner Bros.", "movie": "The Matrix"}
  ]
}`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestFileSource_Load(t *testing.T) {
	path := writeDataset(t, sampleDataset)

	ds, err := NewFileSource().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(ds.Movies) != 2 || ds.Movies[0].Title != "The Matrix" || ds.Movies[0].Released != 1999 {
		t.Errorf("Unexpected movies: %+v", ds.Movies)
	}
	if len(ds.People) != 2 || ds.People[1].Born != 0 {
		t.Errorf("Unexpected people: %+v", ds.People)
	}
	if len(ds.ActedIn) != 1 || ds.ActedIn[0].Roles[0] != "Neo" {
		t.Errorf("Unexpected acted_in: %+v", ds.ActedIn)
	}
	if len(ds.Checksum) != 64 {
		t.Errorf("Expected hex SHA-256 checksum, got %q", ds.Checksum)
	}
}

func TestFileSource_ChecksumTracksContent(t *testing.T) {
	path := writeDataset(t, sampleDataset)
	src := NewFileSource()

	first, err := src.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := src.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first.Checksum != second.Checksum {
		t.Error("Expected identical content to hash identically")
	}

	if err := os.WriteFile(path, []byte(`{"movies":[{"title":"Other"}]}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	third, err := src.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.Checksum == first.Checksum {
		t.Error("Expected changed content to hash differently")
	}
}

func TestFileSource_LoadErrors(t *testing.T) {
	src := NewFileSource()

	if _, err := src.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json")); !errors.IsCode(err, errors.CodeIO) {
		t.Errorf("Expected IO_ERROR for missing file, got %v", err)
	}

	bad := writeDataset(t, "{not json")
	if _, err := src.Load(context.Background(), bad); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("Expected VALIDATION_ERROR for malformed JSON, got %v", err)
	}

	cases := []struct {
		name    string
		content string
	}{
		{"EmptyMovieTitle", `{"movies":[{"title":"  "}]}`},
		{"EmptyPersonName", `{"people":[{"name":""}]}`},
		{"EmptyGenre", `{"genres":[""]}`},
		{"ActedInWithoutRoles", `{"acted_in":[{"person":"A","movie":"B"}]}`},
		{"DirectedWithoutMovie", `{"directed":[{"person":"A"}]}`},
		{"ProducedWithoutStudio", `{"produced":[{"movie":"B"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDataset(t, tc.content)
			if _, err := src.Load(context.Background(), path); !errors.IsCode(err, errors.CodeValidationError) {
				t.Errorf("Expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestWatcher_FiresOnTargetWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	w, err := NewWatcher(path, 50*time.Millisecond, logger, func() {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`{"movies":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for seed change callback")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	w, err := NewWatcher(path, 50*time.Millisecond, logger, func() {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Error("Sibling file write must not trigger a reload")
	case <-time.After(300 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_ReplaceViaRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	w, err := NewWatcher(path, 50*time.Millisecond, logger, func() {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	// Editors often write a temp file and rename it over the target.
	tmp := filepath.Join(dir, ".seed.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"movies":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for rename-replace callback")
	}
}
