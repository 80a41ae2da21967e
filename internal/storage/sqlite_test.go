package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, store *Store, r Run) int64 {
	t.Helper()
	id, err := store.SaveRun(r)
	if err != nil {
		t.Fatalf("SaveRun(%+v) failed: %v", r, err)
	}
	return id
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	mustSave(t, store, Run{GameID: "blocks", Score: 100, Lines: 3, Ruleset: "SRS"})
	mustSave(t, store, Run{GameID: "blocks", Score: 50})
	id := mustSave(t, store, Run{
		GameID:   "blocks",
		Player:   "ana",
		Score:    2400,
		Level:    3,
		Lines:    24,
		Pieces:   61,
		Spins:    2,
		Ruleset:  "SRS+",
		Duration: 95*time.Second + 250*time.Millisecond,
	})
	mustSave(t, store, Run{GameID: "blocks_sprint", Score: 500})

	runs, err := store.TopRuns("blocks", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	if runs[0].Score != 2400 || runs[1].Score != 100 || runs[2].Score != 50 {
		t.Errorf("Runs not ordered by score: %d, %d, %d", runs[0].Score, runs[1].Score, runs[2].Score)
	}

	best := runs[0]
	if best.ID != id || best.Player != "ana" || best.Level != 3 || best.Lines != 24 ||
		best.Pieces != 61 || best.Spins != 2 || best.Ruleset != "SRS+" {
		t.Errorf("Run fields did not round-trip: %+v", best)
	}
	if best.Duration != 95250*time.Millisecond {
		t.Errorf("Duration = %v", best.Duration)
	}
	if best.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 20; i++ {
		mustSave(t, store, Run{GameID: "blocks", Score: i * 10})
	}

	runs, err := store.TopRuns("blocks", 5)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 5 || runs[0].Score != 190 {
		t.Errorf("Expected 5 runs led by 190, got %d", len(runs))
	}

	runs, _ = store.TopRuns("blocks", 0)
	if len(runs) != 10 {
		t.Errorf("Non-positive limit should default to 10, got %d", len(runs))
	}
}

func TestStoreFastestRuns(t *testing.T) {
	store := openTestStore(t)
	mustSave(t, store, Run{GameID: "blocks_sprint", Score: 10, Duration: 30 * time.Second})
	mustSave(t, store, Run{GameID: "blocks_sprint", Score: 10, Duration: 90 * time.Second, Won: true})
	mustSave(t, store, Run{GameID: "blocks_sprint", Score: 10, Duration: 70 * time.Second, Won: true})

	runs, err := store.FastestRuns("blocks_sprint", 10)
	if err != nil {
		t.Fatalf("FastestRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Unfinished runs should be excluded, got %d", len(runs))
	}
	if runs[0].Duration != 70*time.Second || !runs[0].Won {
		t.Errorf("Expected the 70s run first, got %+v", runs[0])
	}
}

func TestStoreRejectsInvalidRun(t *testing.T) {
	store := openTestStore(t)
	for _, r := range []Run{{Score: 10}, {GameID: "blocks", Score: -1}} {
		if _, err := store.SaveRun(r); !errors.Is(err, ErrInvalidRun) {
			t.Errorf("SaveRun(%+v) error = %v, expected ErrInvalidRun", r, err)
		}
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	score, err := store.HighScore("blocks")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if score != 0 {
		t.Errorf("Empty game high score should be 0, got %d", score)
	}

	mustSave(t, store, Run{GameID: "blocks", Score: 300})
	mustSave(t, store, Run{GameID: "blocks", Score: 700})
	mustSave(t, store, Run{GameID: "blocks_dig", Score: 900})

	if score, _ := store.HighScore("blocks"); score != 700 {
		t.Errorf("HighScore() = %d, expected 700", score)
	}

	if err := store.ClearRuns("blocks"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if runs, _ := store.TopRuns("blocks", 10); len(runs) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(runs))
	}
	if score, _ := store.HighScore("blocks_dig"); score != 900 {
		t.Error("ClearRuns should not touch other games")
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)
	mustSave(t, store, Run{GameID: "blocks", Score: 1})
	mustSave(t, store, Run{GameID: "blocks_dig", Score: 2})
	mustSave(t, store, Run{GameID: "blocks_sprint", Score: 3})

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].GameID != "blocks_sprint" || runs[1].GameID != "blocks_dig" {
		t.Errorf("Unexpected recent runs %+v", runs)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("blocks")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.GameID != "blocks" {
		t.Errorf("Empty stats = %+v", empty)
	}

	mustSave(t, store, Run{GameID: "blocks", Score: 100, Lines: 10})
	mustSave(t, store, Run{GameID: "blocks", Score: 300, Lines: 30})
	mustSave(t, store, Run{GameID: "blocks_sprint", Score: 50, Lines: 40, Won: true, Duration: time.Minute})

	st, err := store.GetGameStats("blocks")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if st.GamesCount != 2 || st.HighScore != 300 || st.AvgScore != 200 || st.TotalLines != 40 {
		t.Errorf("Unexpected stats %+v", st)
	}
	if st.BestTime != 0 {
		t.Errorf("No completed runs means no best time, got %v", st.BestTime)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected stats for 2 games, got %d", len(all))
	}
	if all["blocks_sprint"].BestTime != time.Minute {
		t.Errorf("Sprint best time = %v", all["blocks_sprint"].BestTime)
	}
}
