package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one host frame.
const (
	PhaseInput  = "input"
	PhaseUpdate = "update"
	PhaseDraw   = "draw"
	PhaseStream = "stream"
	PhaseStats  = "stats"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks per-phase timing over a rolling window and
// counts ticks that blow the configured frame budget.
type PerfCollector struct {
	windowSize  int
	budget      time.Duration
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	budgetExceeded int
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// budget is the soft per-tick limit; zero disables budget tracking.
func NewPerfCollector(windowSize int, budget time.Duration) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		budget:        budget,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	if p.budget > 0 && sample.TickDuration > p.budget {
		p.budgetExceeded++
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats summarizes the rolling window.
type PerfStats struct {
	AvgTick        time.Duration
	MaxTick        time.Duration
	AvgPhases      map[string]time.Duration
	BudgetExceeded int // cumulative since start
	Samples        int
}

// Stats computes the current window summary.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		AvgPhases:      make(map[string]time.Duration),
		BudgetExceeded: p.budgetExceeded,
		Samples:        p.sampleCount,
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseTotals := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		if s.TickDuration > stats.MaxTick {
			stats.MaxTick = s.TickDuration
		}
		for phase, d := range s.Phases {
			phaseTotals[phase] += d
		}
	}

	stats.AvgTick = total / time.Duration(p.sampleCount)
	for phase, d := range phaseTotals {
		stats.AvgPhases[phase] = d / time.Duration(p.sampleCount)
	}
	return stats
}

// PerfStatsCSV is the flat CSV projection of PerfStats.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      float64 `csv:"avg_tick_us"`
	MaxTickUS      float64 `csv:"max_tick_us"`
	AvgInputUS     float64 `csv:"avg_input_us"`
	AvgUpdateUS    float64 `csv:"avg_update_us"`
	AvgDrawUS      float64 `csv:"avg_draw_us"`
	AvgStreamUS    float64 `csv:"avg_stream_us"`
	AvgStatsUS     float64 `csv:"avg_stats_us"`
	BudgetExceeded int     `csv:"budget_exceeded"`
}

// ToCSV flattens the summary for gocsv.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	us := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1000.0 }
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      us(s.AvgTick),
		MaxTickUS:      us(s.MaxTick),
		AvgInputUS:     us(s.AvgPhases[PhaseInput]),
		AvgUpdateUS:    us(s.AvgPhases[PhaseUpdate]),
		AvgDrawUS:      us(s.AvgPhases[PhaseDraw]),
		AvgStreamUS:    us(s.AvgPhases[PhaseStream]),
		AvgStatsUS:     us(s.AvgPhases[PhaseStats]),
		BudgetExceeded: s.BudgetExceeded,
	}
}

// Log writes the summary via slog.
func (s PerfStats) Log() {
	slog.Info("perf stats",
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"budget_exceeded", s.BudgetExceeded,
		"samples", s.Samples,
	)
}
