package main

import (
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Ulrhol/cnc-emulator/coord"
	"github.com/Ulrhol/cnc-emulator/gcode"
	"github.com/Ulrhol/cnc-emulator/sim"
	"github.com/Ulrhol/cnc-emulator/toolpath"
	"github.com/Ulrhol/cnc-emulator/trace"
)

// Job drives one machine through one program. All machine access goes
// through the job mutex; the interpreter itself expects a single
// driver.
type Job struct {
	ID   uuid.UUID
	Name string

	prog *gcode.Program

	mx      sync.Mutex
	m       *sim.Machine
	scale   float64
	playing chan struct{}

	resolution float64
	interval   time.Duration

	publish func(Event)
}

// Event is what playback pushes to SSE and websocket listeners.
type Event struct {
	Job     string        `json:"job"`
	Type    string        `json:"type"`
	Line    int           `json:"line,omitempty"`
	Command string        `json:"command,omitempty"`
	Kind    string        `json:"kind,omitempty"`
	Points  []coord.Point `json:"points,omitempty"`
	Elapsed float64       `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
}

// Status is the job state reported to clients.
type Status struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Statements   int      `json:"statements"`
	InvalidLines []string `json:"invalidLines,omitempty"`
	Index        int      `json:"index"`
	Finished     bool     `json:"finished"`
	Playing      bool     `json:"playing"`
	Elapsed      float64  `json:"elapsed"`
	RunLength    float64  `json:"runLength"`
	Segments     int      `json:"segments"`
	UnknownCodes []string `json:"unknownCodes,omitempty"`

	Position *coord.Point `json:"position,omitempty"`
	MinPos   *coord.Point `json:"minPos,omitempty"`
	MaxPos   *coord.Point `json:"maxPos,omitempty"`
}

func newJob(name string, prog *gcode.Program, scale, resolution float64, interval time.Duration, publish func(Event)) *Job {
	j := &Job{
		ID:         uuid.Must(uuid.NewV4()),
		Name:       name,
		prog:       prog,
		scale:      scale,
		resolution: resolution,
		interval:   interval,
		publish:    publish,
	}
	j.m = sim.New(sim.Config{Program: prog, Scale: scale, Start: &coord.Point{}})
	return j
}

func (j *Job) Status() Status {
	j.mx.Lock()
	defer j.mx.Unlock()
	return j.statusLocked()
}

func (j *Job) statusLocked() Status {
	s := Status{
		ID:           j.ID.String(),
		Name:         j.Name,
		Statements:   len(j.prog.Statements),
		InvalidLines: j.prog.InvalidLines,
		Index:        j.m.Index(),
		Finished:     j.m.Finished(),
		Playing:      j.playing != nil,
		Elapsed:      j.m.Elapsed(),
		RunLength:    j.m.RunLength(),
		Segments:     len(j.m.Segments()),
		UnknownCodes: j.m.UnknownCodes(),
	}
	if pos, ok := j.m.Position(); ok {
		p := pos
		s.Position = &p
	}
	if min, max, ok := j.m.Bounds(); ok {
		s.MinPos = &min
		s.MaxPos = &max
	}
	return s
}

// Step executes one statement and returns the emitted segment and its
// sampled points, if any.
func (j *Job) Step() (toolpath.Segment, []coord.Point, error) {
	j.mx.Lock()
	defer j.mx.Unlock()
	return j.stepLocked()
}

func (j *Job) stepLocked() (toolpath.Segment, []coord.Point, error) {
	seg, err := j.m.Step()
	if err != nil {
		return nil, nil, err
	}
	if seg == nil {
		return nil, nil, nil
	}
	return seg, trace.Points(seg, j.resolution, j.scale), nil
}

// Skip moves past a statement that failed to evaluate.
func (j *Job) Skip() {
	j.mx.Lock()
	defer j.mx.Unlock()
	j.m.Skip()
}

// Run executes the remaining statements in one call.
func (j *Job) Run() []error {
	j.mx.Lock()
	defer j.mx.Unlock()
	return j.m.Run()
}

// Timeline returns the emitted segments, optionally merged within
// tolerance.
func (j *Job) Timeline(reduced bool, tolerance float64) []toolpath.Segment {
	j.mx.Lock()
	defer j.mx.Unlock()
	segs := j.m.Segments()
	if reduced {
		return toolpath.Reduce(segs, tolerance)
	}
	out := make([]toolpath.Segment, len(segs))
	copy(out, segs)
	return out
}

// Reset tears the machine down and builds a fresh one; there is no
// in-place reset.
func (j *Job) Reset() {
	j.Pause()
	j.mx.Lock()
	defer j.mx.Unlock()
	j.m = sim.New(sim.Config{Program: j.prog, Scale: j.scale, Start: &coord.Point{}})
}

// Play steps the job on a timer until paused or finished, publishing
// each emitted segment with its sampled points.
func (j *Job) Play() {
	j.mx.Lock()
	defer j.mx.Unlock()
	if j.playing != nil || j.m.Finished() {
		return
	}
	stop := make(chan struct{})
	j.playing = stop
	go j.playLoop(stop)
}

func (j *Job) Pause() {
	j.mx.Lock()
	if j.playing != nil {
		close(j.playing)
		j.playing = nil
	}
	j.mx.Unlock()
}

func (j *Job) playLoop(stop chan struct{}) {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}

		j.mx.Lock()
		if j.playing != stop {
			j.mx.Unlock()
			return
		}
		seg, points, err := j.stepLocked()
		st := j.m.Finished()
		if err != nil {
			// A statement that fails to evaluate is reported and
			// skipped so playback can continue.
			logrus.WithField("job", j.ID).Warnf("playback: %v", err)
			j.m.Skip()
			st = j.m.Finished()
			j.mx.Unlock()
			j.publish(Event{Job: j.ID.String(), Type: "error", Error: err.Error()})
			if st {
				j.finishPlayback()
				return
			}
			continue
		}
		elapsed := j.m.Elapsed()
		j.mx.Unlock()

		if seg != nil {
			info := seg.Common()
			j.publish(Event{
				Job:     j.ID.String(),
				Type:    "segment",
				Line:    info.Statement.Line,
				Command: info.Command,
				Kind:    seg.Kind(),
				Points:  points,
				Elapsed: elapsed,
			})
		}
		if st {
			j.finishPlayback()
			return
		}
	}
}

func (j *Job) finishPlayback() {
	j.Pause()
	j.mx.Lock()
	elapsed := j.m.Elapsed()
	j.mx.Unlock()
	j.publish(Event{Job: j.ID.String(), Type: "finished", Elapsed: elapsed})
}

func isFinished(err error) bool {
	return errors.Cause(err) == sim.ErrFinished
}
