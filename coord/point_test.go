package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Add(t *testing.T) {
	a := Point{X: 1, Y: 2, Z: 3}
	b := Point{X: 4, Y: 5, Z: 6}

	assert.Equal(t, Point{X: 5, Y: 7, Z: 9}, a.Add(b))
}

func TestPoint_Sub(t *testing.T) {
	a := Point{X: 4, Y: 5, Z: 6}
	b := Point{X: 1, Y: 2, Z: 3}

	assert.Equal(t, Point{X: 3, Y: 3, Z: 3}, a.Sub(b))
}

func TestPoint_Norm(t *testing.T) {
	assert.Equal(t, 5.0, Point{X: 3, Y: 4}.Norm())
	assert.InEpsilon(t, 3.741657, Point{X: 1, Y: 2, Z: 3}.Norm(), .0001)
}

func TestPoint_Distance(t *testing.T) {
	dist := Point{X: 1, Y: 2, Z: 3}.Distance(Point{X: 4, Y: 5, Z: 3})
	assert.InEpsilon(t, 4.24264, dist, .01)
}

func TestPoint_Lerp(t *testing.T) {
	var a Point // zero
	b := Point{X: 10, Y: 10, Z: 10}

	assert.Equal(t, Point{X: 5, Y: 5, Z: 5}, a.Lerp(b, 0.5))
	assert.Equal(t, b, a.Lerp(b, 1))

	a = Point{X: 10, Y: 10, Z: 10}
	b = Point{X: 20, Y: 20, Z: 20}
	assert.Equal(t, Point{X: 12.5, Y: 12.5, Z: 12.5}, a.Lerp(b, 0.25))
}

func TestPoint_DistanceToLineXY(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}

	assert.Equal(t, 0.0, Point{X: 5, Y: 0}.DistanceToLineXY(a, b))
	assert.Equal(t, 3.0, Point{X: 5, Y: 3}.DistanceToLineXY(a, b))
	assert.Equal(t, 3.0, Point{X: 5, Y: -3}.DistanceToLineXY(a, b))

	// Diagonal line y=x, point off by sqrt(2)/2 * 1
	d := Point{X: 1, Y: 0}.DistanceToLineXY(Point{}, Point{X: 10, Y: 10})
	assert.InEpsilon(t, 0.7071, d, .001)
}
