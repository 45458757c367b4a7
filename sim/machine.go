// Package sim steps a parsed program through a virtual machine state,
// emitting the motion timeline a real controller would execute.
package sim

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Ulrhol/cnc-emulator/coord"
	"github.com/Ulrhol/cnc-emulator/gcode"
	"github.com/Ulrhol/cnc-emulator/toolpath"
)

// RapidSpeedMM is the rapid traverse speed in mm/s.
const RapidSpeedMM = 25.0

// DefaultScale converts program units to machine units; the legacy
// hosts modeled machine space in meters while programs speak mm.
const DefaultScale = 1000

// ErrFinished is returned by Step once the program has completed.
// Stepping a finished machine is a caller contract violation, not a
// silent no-op.
var ErrFinished = errors.New("program already finished")

type Config struct {
	Program *gcode.Program

	// Scale divides program coordinates into machine units.
	// Defaults to DefaultScale.
	Scale float64

	// Start is the initial position. When nil, the first G00/G01
	// carrying coordinates establishes the position without emitting
	// a segment.
	Start *coord.Point
}

// Machine is the mutable state of one program run. It owns the growing
// timeline; segments are appended in statement order and never mutated
// afterward. There is no reset: tear it down and construct a new one.
// A single driver at a time may call Step.
type Machine struct {
	prog *gcode.Program

	pos      coord.Point
	posKnown bool

	minPos, maxPos coord.Point
	boundsKnown    bool

	// feedRate is in machine units per second; programs supply it
	// per minute.
	feedRate   float64
	spindleOn  bool
	units      string
	rapidSpeed float64
	scale      float64
	plane      toolpath.Plane

	time float64
	vars map[string]float64

	segments []toolpath.Segment
	unknown  map[string]bool

	n        int
	finished bool
}

func New(cfg Config) *Machine {
	m := &Machine{
		prog:       cfg.Program,
		feedRate:   1,
		spindleOn:  true,
		units:      "mm",
		rapidSpeed: RapidSpeedMM,
		scale:      cfg.Scale,
		plane:      toolpath.PlaneXY,
		vars:       make(map[string]float64),
		unknown:    make(map[string]bool),
	}
	if m.scale == 0 {
		m.scale = DefaultScale
	}
	if cfg.Start != nil {
		m.pos = *cfg.Start
		m.posKnown = true
	}
	if len(cfg.Program.Statements) == 0 {
		m.finished = true
	}
	return m
}

// Start begins a run of prog from the origin with default settings.
func Start(prog *gcode.Program) *Machine {
	return New(Config{Program: prog, Start: &coord.Point{}})
}

// Step executes exactly one statement and advances to the next,
// returning the segment it emitted, if any. On an evaluation error the
// statement has no effect on the timeline and the machine stays on it;
// use Skip to move past it.
func (m *Machine) Step() (toolpath.Segment, error) {
	if m.finished {
		return nil, ErrFinished
	}

	st := m.prog.Statements[m.n]
	seg, err := m.exec(st)
	if err != nil {
		return nil, errors.Wrapf(err, "statement %d (%s)", st.Line, st.Code)
	}

	m.n++
	if m.n >= len(m.prog.Statements) {
		m.finished = true
	}

	if m.posKnown {
		m.updateBounds()
	}
	return seg, nil
}

// Skip advances past the current statement without executing it.
func (m *Machine) Skip() {
	if m.finished {
		return
	}
	m.n++
	if m.n >= len(m.prog.Statements) {
		m.finished = true
	}
}

// Run executes the remaining statements. Statements that fail to
// evaluate are skipped and their errors returned once the program has
// run to completion.
func (m *Machine) Run() []error {
	var errs []error
	for !m.finished {
		_, err := m.Step()
		if err != nil {
			errs = append(errs, err)
			m.Skip()
		}
	}
	return errs
}

// Only the X and Y extents are tracked; Z is left at its first
// observed value.
func (m *Machine) updateBounds() {
	if !m.boundsKnown {
		m.minPos = m.pos
		m.maxPos = m.pos
		m.boundsKnown = true
		return
	}
	if m.pos.X < m.minPos.X {
		m.minPos.X = m.pos.X
	}
	if m.pos.Y < m.minPos.Y {
		m.minPos.Y = m.pos.Y
	}
	if m.pos.X > m.maxPos.X {
		m.maxPos.X = m.pos.X
	}
	if m.pos.Y > m.maxPos.Y {
		m.maxPos.Y = m.pos.Y
	}
}

func (m *Machine) Finished() bool { return m.finished }

// Index is the index of the next statement to execute.
func (m *Machine) Index() int { return m.n }

// Segments is the timeline emitted so far. The slice is owned by the
// machine; callers must not modify it.
func (m *Machine) Segments() []toolpath.Segment { return m.segments }

// RunLength is the total duration of the job so far, in seconds.
func (m *Machine) RunLength() float64 {
	var total float64
	for _, seg := range m.segments {
		total += seg.Common().Duration
	}
	return total
}

// Elapsed is the cumulative time after the last executed statement.
func (m *Machine) Elapsed() float64 { return m.time }

func (m *Machine) Position() (coord.Point, bool) {
	return m.pos, m.posKnown
}

// Bounds reports the minimum and maximum positions observed so far.
func (m *Machine) Bounds() (min, max coord.Point, ok bool) {
	return m.minPos, m.maxPos, m.boundsKnown
}

func (m *Machine) Units() string { return m.units }

// UnknownCodes lists the unrecognized operation codes seen so far,
// each recorded once.
func (m *Machine) UnknownCodes() []string {
	codes := make([]string, 0, len(m.unknown))
	for c := range m.unknown {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
