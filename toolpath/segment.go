package toolpath

import (
	"math"

	"github.com/Ulrhol/cnc-emulator/coord"
	"github.com/Ulrhol/cnc-emulator/gcode"
)

// Plane is the 2D coordinate plane an arc curves in.
type Plane string

const (
	PlaneXY Plane = "XY"
	PlaneZX Plane = "ZX"
	PlaneYZ Plane = "YZ"
)

// ToolChangeDuration is the fixed time in seconds charged for an M06.
const ToolChangeDuration = 3.0

// Info holds the attributes shared by every segment kind. Segments are
// immutable once emitted into a timeline; the interpreter fills in the
// timing and provenance fields before appending.
type Info struct {
	// SpindleOn records whether the spindle was on during traversal.
	SpindleOn bool
	// Statement is the originating statement, kept as a back-reference
	// only; segments never mutate it.
	Statement *gcode.Statement `json:"-"`
	// Command is a human-readable label for the originating command.
	Command string
	// Length is the path length in machine units.
	Length float64
	// FeedRate is the traversal speed in machine units per second.
	FeedRate float64
	// StartTime is when the segment begins within the job timeline.
	StartTime float64
	// Duration is Length/FeedRate for motion segments; tool changes and
	// dwells carry a fixed or parameter-derived duration instead.
	Duration float64
}

func (i *Info) Common() *Info { return i }

// Segment is one atomic motion or timed operation in a timeline.
type Segment interface {
	Common() *Info
	Kind() string
}

// Line is a straight move between two points.
type Line struct {
	Info
	Start coord.Point
	End   coord.Point
	// Rapid distinguishes a G00 jog from a G01 cut.
	Rapid bool
}

func NewLine(start, end coord.Point, feedRate float64) *Line {
	l := &Line{Start: start, End: end}
	l.FeedRate = feedRate
	l.Length = start.Distance(end)
	l.Duration = l.Length / feedRate
	return l
}

func (l *Line) Kind() string { return "line" }

// Arc is a circular move in the active plane.
type Arc struct {
	Info
	Start     coord.Point
	End       coord.Point
	Center    coord.Point
	Clockwise bool
	Plane     Plane
	Radius    float64
	// Angle1 and Angle2 are the start/end angles in [0, 2π), measured
	// from the center.
	Angle1 float64
	Angle2 float64
	// Span is the absolute angular difference, wrapped to at most π.
	Span float64
}

func NewArc(start, end, center coord.Point, feedRate float64, clockwise bool, plane Plane) *Arc {
	a := &Arc{
		Start:     start,
		End:       end,
		Center:    center,
		Clockwise: clockwise,
		Plane:     plane,
	}
	a.FeedRate = feedRate

	u := start.Sub(center)
	v := end.Sub(center)

	a.Radius = u.Norm()
	a.Angle1 = wrapAngle(math.Atan2(u.Y, u.X))
	a.Angle2 = wrapAngle(math.Atan2(v.Y, v.X))

	diff := math.Abs(a.Angle1 - a.Angle2)
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	a.Span = diff
	a.Length = a.Radius * diff
	a.Duration = a.Length / feedRate
	return a
}

func (a *Arc) Kind() string { return "arc" }

// SignedSpan is the angular sweep from Angle1 to Angle2 taking the
// short way around, renormalized across the ±π boundary. Sampling uses
// this rather than the raw angle difference so arcs spanning the wrap
// boundary produce correct geometry.
func (a *Arc) SignedSpan() float64 {
	d := a.Angle2 - a.Angle1
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func wrapAngle(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ToolChange is a degenerate segment with no spatial extent and a
// fixed duration.
type ToolChange struct {
	Info
}

func NewToolChange() *ToolChange {
	tc := &ToolChange{}
	tc.Duration = ToolChangeDuration
	return tc
}

func (tc *ToolChange) Kind() string { return "toolchange" }

// Dwell pauses for a parameter-derived number of seconds.
type Dwell struct {
	Info
}

func NewDwell(seconds float64) *Dwell {
	d := &Dwell{}
	d.Duration = seconds
	return d
}

func (d *Dwell) Kind() string { return "dwell" }
