package common

import "testing"

func TestApproach(t *testing.T) {
	cases := []struct {
		name                  string
		current, target, step float64
		want                  float64
	}{
		{"forward", 0, 10, 3, 3},
		{"backward", 10, 0, 4, 6},
		{"snap_when_close", 9, 10, 3, 10},
		{"already_there", 5, 5, 1, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Approach(c.current, c.target, c.step); got != c.want {
				t.Fatalf("Approach(%v, %v, %v) = %v, want %v", c.current, c.target, c.step, got, c.want)
			}
		})
	}
}

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(-1, 0, 1); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Clamp(2, 0, 1); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
}
