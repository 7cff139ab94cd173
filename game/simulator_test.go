package game

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/field"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/systems"
	"github.com/pthm-cable/meadow/telemetry"
)

func init() {
	config.MustInit("")
}

func testOptions(depth, width int, seed int64) Options {
	opts := OptionsFromConfig(config.Cfg())
	opts.Depth, opts.Width, opts.Seed = depth, width, seed
	opts.Config = nil
	return opts
}

func newSim(t *testing.T, opts Options) *Simulator {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// deathLog records every death by entity.
type deathLog struct {
	systems.NopRecorder
	deaths map[ecs.Entity]int
	causes []components.DeathCause
}

func (d *deathLog) Death(_ int, e ecs.Entity, _ components.SpeciesID, cause components.DeathCause) {
	if d.deaths == nil {
		d.deaths = make(map[ecs.Entity]int)
	}
	d.deaths[e]++
	d.causes = append(d.causes, cause)
}

type fakeViewer struct {
	shown  []Snapshot
	viable bool
}

func (v *fakeViewer) ShowStatus(s Snapshot) { v.shown = append(v.shown, s) }
func (v *fakeViewer) IsViable(Snapshot) bool { return v.viable }

func checkOccupancy(t *testing.T, s *Simulator) {
	t.Helper()
	store, f := s.Store(), s.field
	seen := 0
	for _, group := range [][]ecs.Entity{s.Population().Animals(), s.Population().Plants()} {
		for _, e := range group {
			if !store.IsAlive(e) {
				t.Fatalf("tick %d: dead organism %v still registered", s.Tick(), e)
			}
			pos := store.Position(e)
			if !pos.OnField {
				t.Fatalf("tick %d: live organism %v is off the field", s.Tick(), e)
			}
			loc, ok := f.LocationOf(e)
			if !ok || loc != pos.Loc {
				t.Fatalf("tick %d: %v records %v, field has %v (%v)", s.Tick(), e, pos.Loc, loc, ok)
			}
			if at, _ := f.At(loc); at != e {
				t.Fatalf("tick %d: cell %v holds %v, want %v", s.Tick(), loc, at, e)
			}
			seen++
		}
	}
	if f.Count() != seen {
		t.Fatalf("tick %d: field holds %d organisms, registry %d", s.Tick(), f.Count(), seen)
	}
	if got := s.Snapshot().Census.Total(); got != seen {
		t.Fatalf("tick %d: census total %d, want %d", s.Tick(), got, seen)
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		name         string
		depth, width int
	}{
		{"zero depth", 0, 10},
		{"zero width", 10, 0},
		{"negative", -1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testOptions(tt.depth, tt.width, 1))
			var cfgErr *config.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("New(%d, %d) error = %v, want ConfigurationError", tt.depth, tt.width, err)
			}
			if !errors.Is(err, field.ErrDimensions) {
				t.Errorf("error %v does not wrap ErrDimensions", err)
			}
		})
	}
}

func TestPopulateFillsField(t *testing.T) {
	s := newSim(t, testOptions(30, 30, 3))
	if s.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", s.Tick())
	}
	if s.Population().Len() == 0 {
		t.Fatal("populate placed nothing")
	}
	checkOccupancy(t, s)

	// random initial ages stay below each species' maximum
	for _, e := range s.Population().Animals() {
		org, an := s.Store().Organism(e), s.Store().Animal(e)
		if maxAge := s.catalog.Animal(org.Species).MaxAge; an.Age >= maxAge {
			t.Fatalf("animal age %d, want < %d", an.Age, maxAge)
		}
	}
}

func TestOccupancyInvariantHolds(t *testing.T) {
	s := newSim(t, testOptions(25, 25, 11))
	for range 60 {
		s.Step()
		checkOccupancy(t, s)
	}
}

func TestDeterministicBySeed(t *testing.T) {
	a := newSim(t, testOptions(20, 20, 42))
	b := newSim(t, testOptions(20, 20, 42))

	for range 40 {
		sa, sb := a.Step(), b.Step()
		if sa.Tick != sb.Tick || sa.Weather != sb.Weather {
			t.Fatalf("tick/weather diverged: %d/%v vs %d/%v", sa.Tick, sa.Weather, sb.Tick, sb.Weather)
		}
		if !slices.Equal(sa.Census.Counts, sb.Census.Counts) {
			t.Fatalf("tick %d: census %v vs %v", sa.Tick, sa.Census.Counts, sb.Census.Counts)
		}
	}

	for row := range 20 {
		for col := range 20 {
			loc := components.At(row, col)
			ea, okA := a.field.At(loc)
			eb, okB := b.field.At(loc)
			if okA != okB {
				t.Fatalf("cell %v occupied %v vs %v", loc, okA, okB)
			}
			if okA && a.Store().Organism(ea).Species != b.Store().Organism(eb).Species {
				t.Fatalf("cell %v holds different species", loc)
			}
		}
	}
}

func TestOrganismsDieAtMostOnce(t *testing.T) {
	log := &deathLog{}
	opts := testOptions(20, 20, 5)
	opts.Events = log
	s := newSim(t, opts)

	for range 50 {
		s.Step()
	}
	if len(log.deaths) == 0 {
		t.Fatal("no deaths in 50 ticks")
	}
	world := s.Store().World()
	for e, n := range log.deaths {
		if n != 1 {
			t.Errorf("%v died %d times", e, n)
		}
		if world.Alive(e) {
			t.Errorf("%v is dead but still in the world", e)
		}
	}
}

func TestSingleCellOvercrowding(t *testing.T) {
	log := &deathLog{}
	opts := testOptions(1, 1, 0)
	rabbit, _ := opts.Catalog.Lookup("rabbit")
	opts.Creation = []config.Creation{{Species: rabbit, Probability: 1}}
	opts.Clock = environment.Clock{HoursPerDay: 24, DayStart: 0, DayEnd: 23}
	opts.Events = log
	// age 0, food 5, male; every roll fails
	opts.Rand = &rng.Fixed{Ints: []int{0, 5, 0}, Float: 0.999}
	s := newSim(t, opts)

	if s.Population().Len() != 1 {
		t.Fatalf("populated %d organisms, want 1", s.Population().Len())
	}
	if steps := s.Simulate(10); steps != 1 {
		t.Errorf("Simulate ran %d steps, want 1", steps)
	}
	if len(log.causes) != 1 || log.causes[0] != components.CauseOvercrowding {
		t.Errorf("causes = %v, want [overcrowding]", log.causes)
	}
	if s.field.Count() != 0 || s.Population().Len() != 0 {
		t.Errorf("field %d / registry %d, want empty", s.field.Count(), s.Population().Len())
	}
	if s.IsViable() {
		t.Error("empty field reported viable")
	}
}

func TestResetRepopulates(t *testing.T) {
	s := newSim(t, testOptions(15, 15, 9))
	for range 20 {
		s.Step()
	}
	s.Reset()
	if s.Tick() != 0 {
		t.Errorf("Tick() after Reset = %d, want 0", s.Tick())
	}
	if s.Population().Len() == 0 {
		t.Fatal("Reset left the field empty")
	}
	checkOccupancy(t, s)
	s.Step()
	checkOccupancy(t, s)
}

func TestViewersSeeEveryStep(t *testing.T) {
	s := newSim(t, testOptions(10, 10, 2))
	v := &fakeViewer{viable: true}
	s.AddViewer(v)
	if len(v.shown) != 1 || v.shown[0].Tick != 0 {
		t.Fatalf("AddViewer did not show the current state: %+v", v.shown)
	}

	if steps := s.Simulate(3); steps != 3 {
		t.Fatalf("Simulate(3) = %d", steps)
	}
	if len(v.shown) != 4 || v.shown[3].Tick != 3 {
		t.Errorf("viewer saw %d snapshots, want 4 ending at tick 3", len(v.shown))
	}
	if v.shown[3].Field.Depth() != 10 {
		t.Errorf("snapshot field depth = %d, want 10", v.shown[3].Field.Depth())
	}

	v.viable = false
	if steps := s.Simulate(5); steps != 0 {
		t.Errorf("Simulate on non-viable view ran %d steps", steps)
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := testOptions(20, 20, 4)
	opts.OutputDir = dir
	opts.Config = config.Cfg()
	opts.StatsWindow = 5

	windows := 0
	opts.StatsCallback = func(stats telemetry.WindowStats, rows []telemetry.SpeciesStats) {
		windows++
		if len(rows) != opts.Catalog.Len() {
			t.Errorf("got %d species rows, want %d", len(rows), opts.Catalog.Len())
		}
	}

	s, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	for range 12 {
		s.Step()
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if windows != 2 {
		t.Errorf("flushed %d windows, want 2", windows)
	}
	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want 3", len(lines))
	}
	for _, name := range []string{"species.csv", "perf.csv", "bookmarks.csv", "metrics.prom", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
