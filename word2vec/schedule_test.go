package word2vec

import (
	"math"
	"testing"
)

func TestSchedule(t *testing.T) {
	s := Schedule{Start: 0.025, Total: 999}
	if s.Rate(0) != 0.025 {
		t.Errorf("expected starting rate but got %v", s.Rate(0))
	}
	if x := s.Rate(500); math.Abs(float64(x)-0.0125) > 1e-6 {
		t.Errorf("expected half rate but got %v", x)
	}
	if x := s.Rate(2000); math.Abs(float64(x)-0.025*DefaultMinRateFraction) > 1e-9 {
		t.Errorf("expected floor but got %v", x)
	}
	last := s.Rate(0)
	for i := int64(1); i < 1200; i++ {
		if r := s.Rate(i); r > last {
			t.Fatalf("rate increased at %d", i)
		} else {
			last = r
		}
	}
}
