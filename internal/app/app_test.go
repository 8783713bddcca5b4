package app

import (
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"config", fmt.Errorf("%w: MAX_ARTICLES must be positive", ErrConfig), 2},
		{"synthesis", fmt.Errorf("%w: response missing sections", ErrSynthesis), 3},
		{"delivery", fmt.Errorf("%w: smtp dial refused", ErrDelivery), 4},
		{"unclassified", fmt.Errorf("something else"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
