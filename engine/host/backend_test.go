package host

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scaleOf(v float64, ok bool) ScaleSource {
	return func() (float64, bool) { return v, ok }
}

func TestResolveScale(t *testing.T) {
	tests := []struct {
		name    string
		sources []ScaleSource
		want    float64
	}{
		{"first available wins", []ScaleSource{scaleOf(2, true), scaleOf(3, true)}, 2},
		{"unavailable falls through", []ScaleSource{scaleOf(2, false), scaleOf(3, true)}, 3},
		{"nothing available resolves to one", []ScaleSource{scaleOf(2, false), scaleOf(3, false)}, 1},
		{"no sources resolves to one", nil, 1},
		{"nil source skipped", []ScaleSource{nil, scaleOf(1.5, true)}, 1.5},
		{"zero rejected", []ScaleSource{scaleOf(0, true), scaleOf(2, true)}, 2},
		{"negative rejected", []ScaleSource{scaleOf(-1, true)}, 1},
		{"nan rejected", []ScaleSource{scaleOf(math.NaN(), true), scaleOf(2, true)}, 2},
		{"inf rejected", []ScaleSource{scaleOf(math.Inf(1), true)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveScale(tt.sources...))
		})
	}
}
