package game

import "log/slog"

// LogViewer reports snapshots through slog every Every ticks.
type LogViewer struct {
	Every int
}

// ShowStatus logs the census on ticks that are a multiple of Every.
func (v LogViewer) ShowStatus(s Snapshot) {
	if v.Every <= 0 || s.Tick%v.Every != 0 {
		return
	}
	slog.Info("status",
		"tick", s.Tick,
		"weather", s.Weather.String(),
		"organisms", s.Census.Total(),
		"census", s.Census,
	)
}

// IsViable reports whether anything is alive.
func (v LogViewer) IsViable(s Snapshot) bool {
	return Viable(s)
}

// logExtinctions logs, at debug level, every species whose count fell to 0.
func logExtinctions(prev, cur Census, tick int) {
	for i, n := range cur.Counts {
		if n == 0 && i < len(prev.Counts) && prev.Counts[i] > 0 {
			slog.Debug("species extinct", "species", cur.Names[i], "tick", tick)
		}
	}
}
