package terrain

import (
	gomath "math"
	"testing"
)

func TestSteadyMorphFactor(t *testing.T) {
	nan := float32(gomath.NaN())

	tests := []struct {
		name       string
		depth      int
		camDist    float32
		unsplit    float32
		morphStart float32
		want       float32
	}{
		{"root never morphs", 0, 180, 200, 100, 0},
		{"depth one never morphs", 1, 180, 200, 100, 0},
		{"inside morph start", 2, 50, 200, 100, 0},
		{"at morph start", 2, 100, 200, 100, 0},
		{"halfway", 2, 150, 200, 100, 0.5},
		{"at unsplit", 3, 200, 200, 100, 1},
		{"beyond unsplit is not clamped", 3, 250, 200, 100, 1.5},
		{"empty range", 2, 150, 100, 100, 0},
		{"inverted range", 2, 150, 100, 120, 0},
		{"nan distance", 2, nan, 200, 100, 0},
		{"nan unsplit", 2, 150, nan, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SteadyMorphFactor(tt.depth, tt.camDist, tt.unsplit, tt.morphStart)
			if got != tt.want {
				t.Errorf("SteadyMorphFactor = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestLODStateFollowsDistance(t *testing.T) {
	s := NewLODState(3)

	s.Update(0.016, 150, 200, 100, 1, 1)
	if s.MorphFactor() != 0.5 || s.FadeFactor() != 0.5 {
		t.Errorf("factors = %f/%f, want 0.5/0.5", s.MorphFactor(), s.FadeFactor())
	}

	s.Update(0.016, 400, 200, 100, 1, 1)
	if s.MorphFactor() != 1 || s.FadeFactor() != 1 {
		t.Errorf("factors beyond unsplit = %f/%f, want clamped to 1", s.MorphFactor(), s.FadeFactor())
	}

	s.Update(0.016, 10, 200, 100, 1, 1)
	if s.MorphFactor() != 0 || s.FadeFactor() != 0 {
		t.Errorf("factors close up = %f/%f, want 0", s.MorphFactor(), s.FadeFactor())
	}
}

func TestJustSplit(t *testing.T) {
	s := NewLODState(2)
	s.JustSplit()

	if s.MorphFactor() != 1 || s.FadeFactor() != 1 {
		t.Fatalf("after split factors = %f/%f, want 1/1", s.MorphFactor(), s.FadeFactor())
	}
	if s.ExtraMorph() != 1 || s.ExtraFade() != 1 {
		t.Fatalf("after split extras = %f/%f, want 1/1", s.ExtraMorph(), s.ExtraFade())
	}

	// No time passed: the boost holds even with the camera close
	s.Update(0, 10, 200, 100, 2, 1)
	if s.MorphFactor() != 1 || s.FadeFactor() != 1 {
		t.Errorf("zero elapsed factors = %f/%f, want 1/1", s.MorphFactor(), s.FadeFactor())
	}

	s.Update(0.5, 10, 200, 100, 2, 1)
	if s.ExtraMorph() != 0.75 || s.ExtraFade() != 0.5 {
		t.Errorf("extras = %f/%f, want 0.75/0.5", s.ExtraMorph(), s.ExtraFade())
	}
	if s.MorphFactor() != 0.75 || s.FadeFactor() != 0.5 {
		t.Errorf("factors = %f/%f, want 0.75/0.5", s.MorphFactor(), s.FadeFactor())
	}

	s.Update(0.5, 10, 200, 100, 2, 1)
	if s.ExtraFade() != 0 || s.FadeFactor() != 0 {
		t.Errorf("fade boost should be spent, got extra %f factor %f", s.ExtraFade(), s.FadeFactor())
	}
	if s.ExtraMorph() != 0.5 {
		t.Errorf("morph extra = %f, want 0.5", s.ExtraMorph())
	}

	s.Update(5, 10, 200, 100, 2, 1)
	if s.ExtraMorph() != 0 || s.MorphFactor() != 0 {
		t.Errorf("morph boost should be spent, got extra %f factor %f", s.ExtraMorph(), s.MorphFactor())
	}
}

func TestBoostGoneAfterOneSpeed(t *testing.T) {
	s := NewLODState(4)
	s.JustSplit()
	s.Update(1.5, 10, 200, 100, 1.5, 1.5)
	if s.MorphFactor() != 0 || s.FadeFactor() != 0 {
		t.Errorf("factors = %f/%f, want 0 after a full speed interval", s.MorphFactor(), s.FadeFactor())
	}
}

func TestBoostDecaysMonotonically(t *testing.T) {
	s := NewLODState(3)
	s.JustSplit()

	prevMorph, prevFade := s.MorphFactor(), s.FadeFactor()
	for range 100 {
		s.Update(0.02, 120, 200, 100, 1, 0.7)
		if s.MorphFactor() > prevMorph || s.FadeFactor() > prevFade {
			t.Fatalf("factor increased at constant distance: %f/%f after %f/%f",
				s.MorphFactor(), s.FadeFactor(), prevMorph, prevFade)
		}
		if s.MorphFactor() < 0 || s.MorphFactor() > 1 || s.FadeFactor() < 0 || s.FadeFactor() > 1 {
			t.Fatalf("factor out of range: %f/%f", s.MorphFactor(), s.FadeFactor())
		}
		prevMorph, prevFade = s.MorphFactor(), s.FadeFactor()
	}

	// Settles on the steady value
	steady := SteadyMorphFactor(3, 120, 200, 100)
	if gomath.Abs(float64(s.MorphFactor()-steady)) > 1e-6 {
		t.Errorf("morph factor = %f, want steady %f", s.MorphFactor(), steady)
	}
}

func TestBoostAddsToSteady(t *testing.T) {
	s := NewLODState(2)
	s.JustSplit()
	s.Update(0.75, 150, 200, 100, 1, 1)
	// steady 0.5 + boost 0.25
	if s.MorphFactor() != 0.75 {
		t.Errorf("morph factor = %f, want 0.75", s.MorphFactor())
	}
}

func TestDecay(t *testing.T) {
	tests := []struct {
		name                   string
		amount, elapsed, speed float32
		want                   float32
	}{
		{"linear", 1, 0.25, 1, 0.75},
		{"slow speed", 1, 0.25, 2, 0.875},
		{"floors at zero", 0.1, 1, 1, 0},
		{"nothing left", 0, 1, 1, 0},
		{"zero speed drops", 1, 0.1, 0, 0},
		{"negative speed drops", 1, 0.1, -1, 0},
		{"negative elapsed keeps", 0.6, -1, 1, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decay(tt.amount, tt.elapsed, tt.speed); got != tt.want {
				t.Errorf("decay(%f, %f, %f) = %f, want %f", tt.amount, tt.elapsed, tt.speed, got, tt.want)
			}
		})
	}
}
