package telemetry

import (
	"testing"

	"github.com/pthm-cable/meadow/config"
)

func init() {
	config.MustInit("")
}

func newDetector() *BookmarkDetector {
	return NewBookmarkDetector(config.Cfg().Telemetry.BookmarkHistorySize, config.Cfg().Bookmarks)
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newDetector()

	rows := []SpeciesStats{{Species: "fox", Count: 4}, {Species: "rabbit", Count: 30}}
	if got := bd.Check(WindowStats{WindowEndTick: 24}, rows); hasBookmark(got, BookmarkExtinction) {
		t.Fatal("unexpected extinction on first window")
	}

	rows = []SpeciesStats{{Species: "fox", Count: 0}, {Species: "rabbit", Count: 25}}
	got := bd.Check(WindowStats{WindowEndTick: 48}, rows)
	if len(got) != 1 || got[0].Type != BookmarkExtinction {
		t.Fatalf("bookmarks = %+v, want one extinction", got)
	}
	if got[0].Tick != 48 {
		t.Errorf("tick = %d, want 48", got[0].Tick)
	}

	// Already extinct species are not reported again
	got = bd.Check(WindowStats{WindowEndTick: 72}, rows)
	if hasBookmark(got, BookmarkExtinction) {
		t.Error("extinction reported twice")
	}
}

func TestBookmarkDetector_Outbreak(t *testing.T) {
	bd := newDetector()

	got := bd.Check(WindowStats{WindowEndTick: 24, Animals: 100, Infected: 30}, nil)
	if !hasBookmark(got, BookmarkOutbreak) {
		t.Fatal("expected disease_outbreak bookmark")
	}

	got = bd.Check(WindowStats{WindowEndTick: 48, Animals: 100, Infected: 40}, nil)
	if hasBookmark(got, BookmarkOutbreak) {
		t.Error("outbreak reported twice without recovery")
	}

	bd.Check(WindowStats{WindowEndTick: 72, Animals: 100, Infected: 5}, nil)
	got = bd.Check(WindowStats{WindowEndTick: 96, Animals: 100, Infected: 50}, nil)
	if !hasBookmark(got, BookmarkOutbreak) {
		t.Error("expected a second outbreak after recovery")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := newDetector()

	for i := range 3 {
		bd.Check(WindowStats{WindowEndTick: i * 24, Animals: 400}, nil)
	}

	got := bd.Check(WindowStats{WindowEndTick: 96, Animals: 380}, nil)
	if hasBookmark(got, BookmarkPopulationCrash) {
		t.Error("small drop reported as crash")
	}

	got = bd.Check(WindowStats{WindowEndTick: 120, Animals: 200}, nil)
	if !hasBookmark(got, BookmarkPopulationCrash) {
		t.Fatal("expected population_crash bookmark")
	}

	// Peak resets after a crash
	got = bd.Check(WindowStats{WindowEndTick: 144, Animals: 190}, nil)
	if hasBookmark(got, BookmarkPopulationCrash) {
		t.Error("crash reported again against the old peak")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := newDetector()
	windows := config.Cfg().Bookmarks.StableEcosystem.StableWindows

	count := 0
	for i := range 20 {
		stats := WindowStats{WindowEndTick: i * 24, Animals: 500 + i%3, SpeciesAlive: 8}
		if hasBookmark(bd.Check(stats, nil), BookmarkStableEcosystem) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("stable_ecosystem fired %d times, want 1 (after %d windows)", count, windows)
	}
}

func TestBookmarkDetector_StableNeedsSpecies(t *testing.T) {
	bd := newDetector()

	for i := range 20 {
		stats := WindowStats{WindowEndTick: i * 24, Animals: 500, SpeciesAlive: 2}
		if hasBookmark(bd.Check(stats, nil), BookmarkStableEcosystem) {
			t.Fatal("stable_ecosystem fired with too few species")
		}
	}
}
