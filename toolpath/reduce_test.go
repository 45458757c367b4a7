package toolpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ulrhol/cnc-emulator/coord"
)

func line(x1, y1, x2, y2 float64) *Line {
	return NewLine(coord.Point{X: x1, Y: y1}, coord.Point{X: x2, Y: y2}, 10)
}

func TestReduce_MergesCollinear(t *testing.T) {
	segs := []Segment{
		line(0, 0, 1, 0),
		line(1, 0, 2, 0.001),
		line(2, 0.001, 3, 0),
	}

	out := Reduce(segs, 0.01)
	require.Len(t, out, 1)

	merged, ok := out[0].(*Line)
	require.True(t, ok)
	assert.Equal(t, coord.Point{}, merged.Start)
	assert.Equal(t, coord.Point{X: 3}, merged.End)
	assert.Equal(t, 10.0, merged.FeedRate)
}

func TestReduce_SplitsOnTolerance(t *testing.T) {
	segs := []Segment{
		line(0, 0, 1, 0),
		line(1, 0, 2, 0),
		line(2, 0, 3, 5), // sharp turn
		line(3, 5, 4, 10),
	}

	out := Reduce(segs, 0.01)
	require.Len(t, out, 2)

	first := out[0].(*Line)
	assert.Equal(t, coord.Point{}, first.Start)
	assert.Equal(t, coord.Point{X: 2}, first.End)

	second := out[1].(*Line)
	assert.Equal(t, coord.Point{X: 2}, second.Start)
	assert.Equal(t, coord.Point{X: 4, Y: 10}, second.End)
}

func TestReduce_ToleranceSafety(t *testing.T) {
	const tol = 0.05
	segs := []Segment{
		line(0, 0, 1, 0.01),
		line(1, 0.01, 2, -0.02),
		line(2, -0.02, 3, 0.03),
		line(3, 0.03, 4, 0),
	}

	out := Reduce(segs, tol)
	require.Len(t, out, 1)
	merged := out[0].(*Line)

	// Every discarded endpoint sits within tolerance of the merged line.
	for _, s := range segs[:len(segs)-1] {
		d := s.(*Line).End.DistanceToLineXY(merged.Start, merged.End)
		assert.LessOrEqual(t, d, tol)
	}
}

func TestReduce_NonLinePassthrough(t *testing.T) {
	arc := NewArc(coord.Point{X: 1}, coord.Point{Y: 1}, coord.Point{}, 1, true, PlaneXY)
	segs := []Segment{
		line(0, 0, 1, 0),
		line(1, 0, 2, 0),
		arc,
		line(2, 0, 3, 0),
	}

	out := Reduce(segs, 0.01)
	require.Len(t, out, 3)
	assert.Equal(t, "line", out[0].Kind())
	assert.Same(t, arc, out[1])
	assert.Equal(t, "line", out[2].Kind())

	merged := out[0].(*Line)
	assert.Equal(t, coord.Point{X: 2}, merged.End)
}

func TestReduce_Empty(t *testing.T) {
	assert.Empty(t, Reduce(nil, 0.1))
}

func TestReduce_SingleLineUnchanged(t *testing.T) {
	l := line(0, 0, 1, 1)
	out := Reduce([]Segment{l}, 0.1)
	require.Len(t, out, 1)
	assert.Same(t, l, out[0])
}
