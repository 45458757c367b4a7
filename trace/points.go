// Package trace samples the intermediate points along a segment for
// incremental playback or rendering. Sampling is a pure function of
// the segment and the resolution; every call recomputes from scratch.
package trace

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Ulrhol/cnc-emulator/coord"
	"github.com/Ulrhol/cnc-emulator/toolpath"
)

// Points returns the ordered, strictly-interior points to visit along
// seg. The point count scales with path length, the sampling
// resolution (points per unit length) and the job scale, and inversely
// with the feed rate, so slow cuts render smoother than fast jogs.
// Degenerate segments yield no points.
func Points(seg toolpath.Segment, resolution, scale float64) []coord.Point {
	switch s := seg.(type) {
	case *toolpath.Line:
		return linePoints(s, resolution, scale)
	case *toolpath.Arc:
		return arcPoints(s, resolution, scale)
	case *toolpath.ToolChange, *toolpath.Dwell:
		return nil
	default:
		logrus.Warnf("no point sampling for %T", seg)
		return nil
	}
}

func pointCount(info *toolpath.Info, resolution, scale float64) int {
	return int(math.Floor(info.Length * resolution * scale / info.FeedRate))
}

func linePoints(l *toolpath.Line, resolution, scale float64) []coord.Point {
	n := pointCount(l.Common(), resolution, scale)
	if n <= 0 {
		return nil
	}

	step := l.End.Sub(l.Start).Div(float64(n + 1))
	pts := make([]coord.Point, 0, n)
	for i := 1; i <= n; i++ {
		pts = append(pts, l.Start.Add(step.Mul(float64(i))))
	}
	return pts
}

func arcPoints(a *toolpath.Arc, resolution, scale float64) []coord.Point {
	n := pointCount(a.Common(), resolution, scale)
	// Always sample at least a couple of interior points so even tiny
	// arcs keep their curvature.
	if n < 3 {
		n = 3
	}

	step := a.SignedSpan() / float64(n)
	if step == 0 {
		return nil
	}

	pts := make([]coord.Point, 0, n-1)
	for p := 1; p < n; p++ {
		ang := a.Angle1 + step*float64(p)
		sin, cos := math.Sincos(ang)
		pt := a.Center

		switch {
		case a.Plane == toolpath.PlaneXY && a.Clockwise:
			pt.X = a.Center.X + a.Radius*cos
			pt.Y = a.Center.Y + a.Radius*sin
		case a.Plane == toolpath.PlaneXY:
			pt.X = a.Center.X + a.Radius*sin
			pt.Y = a.Center.Y + a.Radius*cos
		case a.Plane == toolpath.PlaneZX && a.Clockwise:
			pt.Z = a.Center.Z + a.Radius*sin
			pt.X = a.Center.X + a.Radius*cos
		case a.Plane == toolpath.PlaneZX:
			pt.Z = a.Center.Z + a.Radius*cos
			pt.X = a.Center.X + a.Radius*sin
		case a.Plane == toolpath.PlaneYZ && a.Clockwise:
			pt.Y = a.Center.Y + a.Radius*sin
			pt.Z = a.Center.Z + a.Radius*cos
		case a.Plane == toolpath.PlaneYZ:
			pt.Y = a.Center.Y + a.Radius*cos
			pt.Z = a.Center.Z + a.Radius*sin
		default:
			logrus.WithField("plane", a.Plane).Warn("unknown plane")
			return nil
		}
		pts = append(pts, pt)
	}
	return pts
}
