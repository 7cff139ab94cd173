package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/meadow/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int    `csv:"-"`
	WindowEndTick   int    `csv:"window_end"`
	Weather         string `csv:"weather"`

	// Population counts at window end
	Animals      int `csv:"animals"`
	Plants       int `csv:"plants"`
	SpeciesAlive int `csv:"species_alive"`

	// Events during window
	Births int `csv:"births"`
	Deaths int `csv:"deaths"`

	DeathsOldAge      int `csv:"deaths_old_age"`
	DeathsStarvation  int `csv:"deaths_starvation"`
	DeathsDisease     int `csv:"deaths_disease"`
	DeathsStorm       int `csv:"deaths_storm"`
	DeathsOvercrowded int `csv:"deaths_overcrowding"`
	DeathsEaten       int `csv:"deaths_eaten"`

	// Disease
	Infections            int `csv:"infections"`
	SpontaneousInfections int `csv:"spontaneous_infections"`
	Infected              int `csv:"infected"`

	// Feeding
	Meals     int `csv:"meals"`
	FoodEaten int `csv:"food_eaten"`

	// Animal food level distribution (sampled at window end)
	FoodMean float64 `csv:"food_mean"`
	FoodStd  float64 `csv:"food_std"`
	FoodP10  float64 `csv:"food_p10"`
	FoodP50  float64 `csv:"food_p50"`
	FoodP90  float64 `csv:"food_p90"`

	// Animal age distribution
	AgeMean float64 `csv:"age_mean"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`

	PlantFoodMean float64 `csv:"plant_food_mean"`
}

func (s *WindowStats) addDeaths(cause components.DeathCause, n int) {
	switch cause {
	case components.CauseOldAge:
		s.DeathsOldAge += n
	case components.CauseStarvation:
		s.DeathsStarvation += n
	case components.CauseDisease:
		s.DeathsDisease += n
	case components.CauseStorm:
		s.DeathsStorm += n
	case components.CauseOvercrowding:
		s.DeathsOvercrowded += n
	case components.CauseEaten:
		s.DeathsEaten += n
	}
}

// SpeciesStats is one species' row for a window.
type SpeciesStats struct {
	WindowEnd    int     `csv:"window_end"`
	Species      string  `csv:"species"`
	Count        int     `csv:"count"`
	Births       int     `csv:"births"`
	Deaths       int     `csv:"deaths"`
	Eaten        int     `csv:"eaten"`
	Infected     int     `csv:"infected"`
	Infections   int     `csv:"infections"`
	Meals        int     `csv:"meals"`
	MeanLifespan float64 `csv:"mean_lifespan"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles. Values are not modified.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// CoefficientOfVariation returns std/mean, or 0 when the mean is zero or
// fewer than two values are given.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.String("weather", s.Weather),
		slog.Int("animals", s.Animals),
		slog.Int("plants", s.Plants),
		slog.Int("species_alive", s.SpeciesAlive),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("deaths_starvation", s.DeathsStarvation),
		slog.Int("deaths_disease", s.DeathsDisease),
		slog.Int("deaths_storm", s.DeathsStorm),
		slog.Int("deaths_overcrowding", s.DeathsOvercrowded),
		slog.Int("deaths_eaten", s.DeathsEaten),
		slog.Int("infections", s.Infections),
		slog.Int("spontaneous_infections", s.SpontaneousInfections),
		slog.Int("infected", s.Infected),
		slog.Int("meals", s.Meals),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Float64("food_mean", s.FoodMean),
		slog.Float64("food_std", s.FoodStd),
		slog.Float64("food_p10", s.FoodP10),
		slog.Float64("food_p50", s.FoodP50),
		slog.Float64("food_p90", s.FoodP90),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
		slog.Float64("plant_food_mean", s.PlantFoodMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"weather", s.Weather,
		"animals", s.Animals,
		"plants", s.Plants,
		"species_alive", s.SpeciesAlive,
		"births", s.Births,
		"deaths", s.Deaths,
		"deaths_eaten", s.DeathsEaten,
		"deaths_starvation", s.DeathsStarvation,
		"infections", s.Infections,
		"infected", s.Infected,
		"meals", s.Meals,
		"food_mean", s.FoodMean,
		"food_p50", s.FoodP50,
		"age_mean", s.AgeMean,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s SpeciesStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("species", s.Species),
		slog.Int("count", s.Count),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("infected", s.Infected),
	)
}
