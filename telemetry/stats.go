// Package telemetry provides windowed simulation statistics, per-phase
// performance timing, and CSV output for experiment runs.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ripple/fluid"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// State at window end
	ParticleCount int `csv:"particles"`

	// Aggregates over the window
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	SpeedMean   float64 `csv:"speed_mean"`
	SpeedMax    float64 `csv:"speed_max"`

	// Stability signals
	SpeedClamps int `csv:"speed_clamps"`
}

// Collector aggregates per-tick fluid samples into window stats.
type Collector struct {
	windowTicks int
	logStats    bool

	tick        int32
	windowStart int32
	simTime     float64

	densityMeans []float64
	speedMeans   []float64
	speedMax     float64
	clamps       int
	lastCount    int
}

// NewCollector creates a collector emitting one WindowStats every
// windowTicks ticks. When logStats is set, each window is also logged
// via slog.
func NewCollector(windowTicks int, logStats bool) *Collector {
	if windowTicks < 1 {
		windowTicks = 60
	}
	return &Collector{
		windowTicks:  windowTicks,
		logStats:     logStats,
		densityMeans: make([]float64, 0, windowTicks),
		speedMeans:   make([]float64, 0, windowTicks),
	}
}

// Record ingests one tick's snapshot. It returns the completed window's
// stats and true when a window boundary is crossed.
func (c *Collector) Record(snap []fluid.ParticleState, speedClamps int, dt float64) (WindowStats, bool) {
	c.tick++
	c.simTime += dt
	c.clamps += speedClamps
	c.lastCount = len(snap)

	if len(snap) > 0 {
		var dSum, sSum float64
		for i := range snap {
			dSum += float64(snap[i].Density)
			speed := float64(snap[i].Velocity.Len())
			sSum += speed
			if speed > c.speedMax {
				c.speedMax = speed
			}
		}
		c.densityMeans = append(c.densityMeans, dSum/float64(len(snap)))
		c.speedMeans = append(c.speedMeans, sSum/float64(len(snap)))
	}

	if c.tick-c.windowStart < int32(c.windowTicks) {
		return WindowStats{}, false
	}
	return c.flush(), true
}

// flush closes the current window and resets accumulation.
func (c *Collector) flush() WindowStats {
	ws := WindowStats{
		WindowStartTick: c.windowStart,
		WindowEndTick:   c.tick,
		SimTimeSec:      c.simTime,
		ParticleCount:   c.lastCount,
		SpeedMax:        c.speedMax,
		SpeedClamps:     c.clamps,
	}
	if len(c.densityMeans) > 0 {
		ws.DensityMean = stat.Mean(c.densityMeans, nil)
		ws.DensityStd = stat.StdDev(c.densityMeans, nil)
		ws.SpeedMean = stat.Mean(c.speedMeans, nil)
	}

	if c.logStats {
		slog.Info("window stats",
			"tick", ws.WindowEndTick,
			"particles", ws.ParticleCount,
			"density_mean", ws.DensityMean,
			"density_std", ws.DensityStd,
			"speed_mean", ws.SpeedMean,
			"speed_max", ws.SpeedMax,
			"speed_clamps", ws.SpeedClamps,
		)
	}

	c.windowStart = c.tick
	c.densityMeans = c.densityMeans[:0]
	c.speedMeans = c.speedMeans[:0]
	c.speedMax = 0
	c.clamps = 0
	return ws
}

// Tick returns the number of ticks recorded so far.
func (c *Collector) Tick() int32 {
	return c.tick
}
