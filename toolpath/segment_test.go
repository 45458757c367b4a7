package toolpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ulrhol/cnc-emulator/coord"
)

func TestNewLine(t *testing.T) {
	l := NewLine(coord.Point{}, coord.Point{X: 3, Y: 4}, 2)

	assert.Equal(t, 5.0, l.Length)
	assert.Equal(t, 2.5, l.Duration)
	assert.Equal(t, 2.0, l.FeedRate)
	assert.False(t, l.Rapid)
	assert.Equal(t, "line", l.Kind())
}

func TestNewArc_Quarter(t *testing.T) {
	// Quarter circle from (5,0) to (0,5) around the origin.
	a := NewArc(coord.Point{X: 5}, coord.Point{Y: 5}, coord.Point{}, 1, false, PlaneXY)

	assert.Equal(t, 5.0, a.Radius)
	assert.Equal(t, 0.0, a.Angle1)
	assert.InEpsilon(t, math.Pi/2, a.Angle2, 1e-9)
	assert.InEpsilon(t, math.Pi/2, a.Span, 1e-9)
	assert.InEpsilon(t, 5*math.Pi/2, a.Length, 1e-9)
	assert.InEpsilon(t, 5*math.Pi/2, a.Duration, 1e-9)
}

func TestNewArc_RadiiAgree(t *testing.T) {
	a := NewArc(coord.Point{X: 10, Y: 10}, coord.Point{X: 20, Y: 20},
		coord.Point{X: 15, Y: 15}, 1, true, PlaneXY)

	r1 := a.Start.Distance(a.Center)
	r2 := a.End.Distance(a.Center)
	assert.InDelta(t, r1, r2, 1e-9)
	assert.InDelta(t, r1, a.Radius, 1e-9)
}

func TestArc_SignedSpan_Wrap(t *testing.T) {
	// Start at -10° (350°), end at +10°: the sweep must take the short
	// way across the 0/2π boundary, not 340° the long way around.
	start := coord.Point{X: math.Cos(-10 * math.Pi / 180), Y: math.Sin(-10 * math.Pi / 180)}
	end := coord.Point{X: math.Cos(10 * math.Pi / 180), Y: math.Sin(10 * math.Pi / 180)}
	a := NewArc(start, end, coord.Point{}, 1, false, PlaneXY)

	assert.InEpsilon(t, 20*math.Pi/180, a.SignedSpan(), 1e-6)
	assert.InEpsilon(t, 20*math.Pi/180, a.Span, 1e-6)
}

func TestArc_SignedSpan_Negative(t *testing.T) {
	// From 90° down to 0°.
	a := NewArc(coord.Point{Y: 5}, coord.Point{X: 5}, coord.Point{}, 1, true, PlaneXY)
	assert.InEpsilon(t, -math.Pi/2, a.SignedSpan(), 1e-9)
}

func TestNewToolChange(t *testing.T) {
	tc := NewToolChange()
	assert.Equal(t, ToolChangeDuration, tc.Duration)
	assert.Equal(t, 0.0, tc.Length)
	assert.Equal(t, "toolchange", tc.Kind())
}

func TestNewDwell(t *testing.T) {
	d := NewDwell(1.5)
	assert.Equal(t, 1.5, d.Duration)
	assert.Equal(t, "dwell", d.Kind())
}
