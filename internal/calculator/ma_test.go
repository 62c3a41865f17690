package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	got, err := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("expected NaN before the first full window, got %v", got[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(got[i+2]-w) > 1e-12 {
			t.Errorf("index %d: expected %v, got %v", i+2, w, got[i+2])
		}
	}

	if _, err := MovingAverage([]float64{1, 2}, 3); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := MovingAverage([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}
