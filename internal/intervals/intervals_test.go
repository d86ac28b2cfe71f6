package intervals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func identity(iv Interval) Interval { return iv }

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Interval
		want       []Interval
	}{
		{
			name: "empty",
		},
		{
			name:       "longer wins at same start",
			candidates: []Interval{{0, 1}, {0, 3}, {0, 2}},
			want:       []Interval{{0, 3}},
		},
		{
			name:       "disjoint both kept",
			candidates: []Interval{{4, 6}, {0, 2}},
			want:       []Interval{{0, 2}, {4, 6}},
		},
		{
			name:       "adjacent both kept",
			candidates: []Interval{{0, 2}, {2, 4}},
			want:       []Interval{{0, 2}, {2, 4}},
		},
		{
			name:       "earlier start wins over longer overlap",
			candidates: []Interval{{1, 6}, {0, 2}},
			want:       []Interval{{0, 2}},
		},
		{
			name:       "nested matches dropped",
			candidates: []Interval{{0, 4}, {1, 2}, {2, 3}, {4, 5}},
			want:       []Interval{{0, 4}, {4, 5}},
		},
		{
			name:       "empty intervals ignored",
			candidates: []Interval{{1, 1}, {0, 1}},
			want:       []Interval{{0, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.candidates, identity))
		})
	}
}

func TestSelectStableTies(t *testing.T) {
	type tagged struct {
		iv  Interval
		tag string
	}
	got := Select([]tagged{{Interval{0, 2}, "first"}, {Interval{0, 2}, "second"}},
		func(t tagged) Interval { return t.iv })
	assert.Len(t, got, 1)
	assert.Equal(t, "first", got[0].tag)
}

func TestSelectDoesNotModifyInput(t *testing.T) {
	in := []Interval{{3, 4}, {0, 1}}
	_ = Select(in, identity)
	assert.Equal(t, []Interval{{3, 4}, {0, 1}}, in)
}
