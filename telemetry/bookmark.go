package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/meadow/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction      BookmarkType = "species_extinction"
	BookmarkOutbreak        BookmarkType = "disease_outbreak"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkStableEcosystem BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	lastCounts         map[string]int
	inOutbreak         bool
	recentPeak         int // peak animal count since the last crash
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size and thresholds.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		lastCounts:  make(map[string]int),
	}
}

// Check analyzes the latest window and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats, rows []SpeciesStats) []Bookmark {
	var bookmarks []Bookmark

	bookmarks = append(bookmarks, bd.checkExtinctions(stats, rows)...)

	if b := bd.checkOutbreak(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPopulationCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.recentPeak = max(bd.recentPeak, stats.Animals)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkExtinctions(stats WindowStats, rows []SpeciesStats) []Bookmark {
	var bookmarks []Bookmark
	for _, row := range rows {
		if row.Count == 0 && bd.lastCounts[row.Species] > 0 {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkExtinction,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%s went extinct (was %d)", row.Species, bd.lastCounts[row.Species]),
			})
		}
		bd.lastCounts[row.Species] = row.Count
	}
	return bookmarks
}

func (bd *BookmarkDetector) checkOutbreak(stats WindowStats) *Bookmark {
	if stats.Animals == 0 {
		bd.inOutbreak = false
		return nil
	}
	fraction := float64(stats.Infected) / float64(stats.Animals)

	if bd.inOutbreak {
		if fraction < bd.cfg.OutbreakFraction/2 {
			bd.inOutbreak = false
		}
		return nil
	}
	if fraction < bd.cfg.OutbreakFraction {
		return nil
	}

	bd.inOutbreak = true
	return &Bookmark{
		Type:        BookmarkOutbreak,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%.0f%% of animals infected (%d of %d)", fraction*100, stats.Infected, stats.Animals),
	}
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	peak := bd.recentPeak
	drop := peak - stats.Animals
	if peak == 0 || drop < bd.cfg.PopulationCrash.MinDrop {
		return nil
	}
	if float64(drop)/float64(peak) < bd.cfg.PopulationCrash.DropPercent {
		return nil
	}

	bd.recentPeak = stats.Animals
	return &Bookmark{
		Type:        BookmarkPopulationCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("animals dropped from %d to %d", peak, stats.Animals),
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 || stats.SpeciesAlive < bd.cfg.StableEcosystem.MinSpecies {
		bd.stableWindowsCount = 0
		return nil
	}

	series := make([]float64, 0, len(history)+1)
	for _, h := range history {
		series = append(series, float64(h.Animals))
	}
	series = append(series, float64(stats.Animals))

	if CoefficientOfVariation(series) < bd.cfg.StableEcosystem.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	// trigger exactly once per stable run
	if bd.stableWindowsCount != bd.cfg.StableEcosystem.StableWindows {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStableEcosystem,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d species stable for %d windows", stats.SpeciesAlive, bd.stableWindowsCount),
	}
}
