package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorRecordsPhases(t *testing.T) {
	p := NewPerfCollector(10, 0)

	for i := 0; i < 3; i++ {
		p.StartTick()
		p.StartPhase(PhaseUpdate)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseDraw)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.Samples != 3 {
		t.Errorf("samples = %d, want 3", stats.Samples)
	}
	if stats.AvgTick <= 0 {
		t.Error("avg tick not positive")
	}
	if stats.AvgPhases[PhaseUpdate] <= 0 {
		t.Error("update phase not recorded")
	}
	if stats.MaxTick < stats.AvgTick {
		t.Errorf("max tick %v below avg %v", stats.MaxTick, stats.AvgTick)
	}
}

// Mirrors the host's call order, where the update pass opens the draw
// phase's tick and the render pass closes it after drawing.
func TestPerfCollectorDrawPhaseSpansUpdateAndDraw(t *testing.T) {
	p := NewPerfCollector(10, 0)

	for i := 0; i < 2; i++ {
		p.StartTick()
		p.StartPhase(PhaseInput)
		p.StartPhase(PhaseUpdate)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseStats)
		// Render pass runs after the update pass returns.
		p.StartPhase(PhaseDraw)
		time.Sleep(2 * time.Millisecond)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgPhases[PhaseDraw] <= 0 {
		t.Error("draw phase lost from the sample")
	}
	if stats.AvgPhases[PhaseUpdate] <= 0 {
		t.Error("update phase lost from the sample")
	}
	if stats.AvgTick < stats.AvgPhases[PhaseDraw] {
		t.Errorf("tick %v shorter than its draw phase %v", stats.AvgTick, stats.AvgPhases[PhaseDraw])
	}
}

func TestPerfCollectorBudget(t *testing.T) {
	p := NewPerfCollector(10, time.Microsecond)

	p.StartTick()
	time.Sleep(2 * time.Millisecond)
	p.EndTick()

	if got := p.Stats().BudgetExceeded; got != 1 {
		t.Errorf("budget exceeded = %d, want 1", got)
	}
}

func TestPerfCollectorRollsOver(t *testing.T) {
	p := NewPerfCollector(2, 0)

	for i := 0; i < 5; i++ {
		p.StartTick()
		p.EndTick()
	}

	if got := p.Stats().Samples; got != 2 {
		t.Errorf("samples = %d, want window size 2", got)
	}
}
