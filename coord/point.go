package coord

import (
	"math"
)

type Point struct{ X, Y, Z float64 }

func (p Point) Equal(b Point) bool {
	return p.X == b.X && p.Y == b.Y && p.Z == b.Z
}

func (p Point) Dot(op Point) float64 {
	return p.X*op.X + p.Y*op.Y + p.Z*op.Z
}

func (p Point) Mul(val float64) Point {
	p.X *= val
	p.Y *= val
	p.Z *= val
	return p
}

func (p Point) Div(val float64) Point {
	p.X /= val
	p.Y /= val
	p.Z /= val
	return p
}

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	p.Z += target.Z
	return p
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	p.Z -= target.Z
	return p
}

// Norm will return the euclidean length of p.
func (p Point) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Distance will return the 3D distance from p to target.
func (p Point) Distance(target Point) float64 {
	return target.Sub(p).Norm()
}

// Lerp will return the point a fraction t of the way from p to target.
func (p Point) Lerp(target Point, t float64) Point {
	return p.Add(target.Sub(p).Mul(t))
}

// DistanceToLineXY will return the perpendicular distance from p to the
// line through a and b, measured in the XY plane.
//
// The denominator uses the full 3D length of a-b, matching how run
// tolerance is measured when merging moves that also travel in Z.
func (p Point) DistanceToLineXY(a, b Point) float64 {
	n := math.Abs((b.X-a.X)*(a.Y-p.Y) - (a.X-p.X)*(b.Y-a.Y))
	return n / a.Distance(b)
}
