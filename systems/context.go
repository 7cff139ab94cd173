package systems

import (
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/rng"
)

// Context carries the per-tick inputs every organism action reads.
type Context struct {
	Tick    int
	Weather environment.Kind
	Rand    rng.Source
}
