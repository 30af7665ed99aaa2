package panel

import (
	"testing"

	"aura/internal/session"
)

func TestButtonColor(t *testing.T) {
	cfg := DefaultConfig()

	if got := buttonColor(cfg, session.Control{Enabled: true}); got != cfg.IdleColor {
		t.Errorf("Expected idle color, got %v", got)
	}
	if got := buttonColor(cfg, session.Control{Enabled: true, Recording: true}); got != cfg.RecordColor {
		t.Errorf("Expected record color while recording, got %v", got)
	}

	disabled := buttonColor(cfg, session.Control{Enabled: false})
	if disabled.A >= cfg.IdleColor.A {
		t.Errorf("Expected dimmed button while disabled, got alpha %d", disabled.A)
	}
}

func TestWithOpacityClamps(t *testing.T) {
	c := DefaultConfig().WaveColor

	if got := withOpacity(c, 2); got.A != c.A {
		t.Errorf("Expected unchanged alpha, got %d", got.A)
	}
	if got := withOpacity(c, -1); got.A != 0 {
		t.Errorf("Expected transparent, got %d", got.A)
	}
	if got := withOpacity(c, session.DimmedOpacity); got.A != uint8(float32(c.A)*session.DimmedOpacity) {
		t.Errorf("Unexpected dimmed alpha %d", got.A)
	}
}

func TestCalculateRMS(t *testing.T) {
	if calculateRMS(nil) != 0 {
		t.Error("Expected zero level for no samples")
	}
	if got := calculateRMS([]float32{0.5, -0.5, 0.5, -0.5}); got != 1 {
		t.Errorf("Expected clamped level 1, got %v", got)
	}
	if got := calculateRMS([]float32{0.1, -0.1}); got < 0.29 || got > 0.31 {
		t.Errorf("Expected level around 0.3, got %v", got)
	}
}

func TestStatusOpacityFollowsView(t *testing.T) {
	w := New(nil, DefaultConfig(), nil, nil)

	w.SetStatus(session.Status{Text: "Network error: x", Severity: session.SeverityCritical})
	if w.model.opacity != 1 {
		t.Errorf("Expected full opacity for critical status, got %v", w.model.opacity)
	}

	w.DimStatus()
	if w.model.opacity != session.DimmedOpacity {
		t.Errorf("Expected dimmed opacity, got %v", w.model.opacity)
	}

	w.SetStatus(session.Status{Text: "Listening..."})
	if w.model.opacity != 0.9 {
		t.Errorf("Expected normal opacity after a new status, got %v", w.model.opacity)
	}
}
