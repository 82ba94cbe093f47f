package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "depmap.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.SaveSnapshot(Snapshot{
		ProjectKey:      "/proj",
		FileCount:       12,
		ModuleCount:     10,
		EdgeCount:       18,
		CycleCount:      1,
		OrphanCount:     2,
		ParseErrorCount: 0,
		MeanInstability: 0.42,
		ScanSeconds:     0.031,
	})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ScanID == "" {
		t.Error("Expected a generated scan id")
	}
	if saved.Timestamp.IsZero() {
		t.Error("Expected a timestamp assigned")
	}
	if saved.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d", saved.SchemaVersion)
	}

	snapshots, err := store.LoadSnapshots("/proj", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(snapshots))
	}

	got := snapshots[0]
	if got.ScanID != saved.ScanID {
		t.Errorf("ScanID = %s, want %s", got.ScanID, saved.ScanID)
	}
	if got.ModuleCount != 10 || got.EdgeCount != 18 || got.CycleCount != 1 {
		t.Errorf("Counts wrong: %+v", got)
	}
	if got.MeanInstability != 0.42 {
		t.Errorf("MeanInstability = %v", got.MeanInstability)
	}
}

func TestLoadSnapshotsEmptyKeyListsAllProjects(t *testing.T) {
	store := openTestStore(t)

	// Scans record snapshots keyed by the absolute scan root.
	if _, err := store.SaveSnapshot(Snapshot{ProjectKey: "/home/user/proj-a", ModuleCount: 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSnapshot(Snapshot{ProjectKey: "/home/user/proj-b", ModuleCount: 5}); err != nil {
		t.Fatal(err)
	}

	snapshots, err := store.LoadSnapshots("", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("Expected 2 snapshots without a project filter, got %d", len(snapshots))
	}

	snapshots, err = store.LoadSnapshots("  ", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("Expected blank key to match all projects, got %d", len(snapshots))
	}
}

func TestLoadSnapshotsFiltersByProject(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveSnapshot(Snapshot{ProjectKey: "/a", ModuleCount: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSnapshot(Snapshot{ProjectKey: "/b", ModuleCount: 2}); err != nil {
		t.Fatal(err)
	}

	snapshots, err := store.LoadSnapshots("/a", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 1 || snapshots[0].ModuleCount != 1 {
		t.Errorf("Snapshots = %+v", snapshots)
	}
}

func TestLoadSnapshotsSince(t *testing.T) {
	store := openTestStore(t)

	old := Snapshot{ProjectKey: "/p", Timestamp: time.Now().Add(-48 * time.Hour)}
	if _, err := store.SaveSnapshot(old); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSnapshot(Snapshot{ProjectKey: "/p"}); err != nil {
		t.Fatal(err)
	}

	recent, err := store.LoadSnapshots("/p", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Errorf("Expected 1 recent snapshot, got %d", len(recent))
	}
}

func TestLoadSnapshotsChronological(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 3; i > 0; i-- {
		snap := Snapshot{ProjectKey: "/p", Timestamp: base.Add(time.Duration(i) * time.Minute), ModuleCount: i}
		if _, err := store.SaveSnapshot(snap); err != nil {
			t.Fatal(err)
		}
	}

	snapshots, err := store.LoadSnapshots("/p", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(snapshots))
	}
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].Timestamp.Before(snapshots[i-1].Timestamp) {
			t.Error("Snapshots not in chronological order")
		}
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Expected error for empty path")
	}
}

func TestOpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("Expected error for directory path")
	}
}

func TestUnsupportedSchemaVersion(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveSnapshot(Snapshot{SchemaVersion: 99}); err == nil {
		t.Fatal("Expected error for unsupported schema version")
	}
}
