package main

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsCommand is what a connected client may ask the job to do.
type wsCommand struct {
	Action    string  `json:"action"`
	Tolerance float64 `json:"tolerance,omitempty"`
}

// jobSocket upgrades the connection and drives one job over it: the
// client sends commands, the server streams back the job's events.
func (a *api) jobSocket(w http.ResponseWriter, req *http.Request) {
	j := a.job(w, req)
	if j == nil {
		return
	}

	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		logrus.Errorf("upgrade: %v", err)
		return
	}

	events := a.subscribe()
	done := make(chan struct{})
	go a.wsWriteLoop(ws, j, events, done)
	a.wsReadLoop(ws, j)

	close(done)
	a.unsubscribe(events)
	ws.Close()
}

func (a *api) wsWriteLoop(ws *websocket.Conn, j *Job, events chan Event, done chan struct{}) {
	id := j.ID.String()
	for {
		select {
		case <-done:
			return
		case ev := <-events:
			if ev.Job != id {
				continue
			}
			if err := ws.WriteJSON(ev); err != nil {
				logrus.Debugf("ws write: %v", err)
				return
			}
		}
	}
}

func (a *api) wsReadLoop(ws *websocket.Conn, j *Job) {
	for {
		var cmd wsCommand
		if err := ws.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Debugf("ws read: %v", err)
			}
			return
		}

		switch cmd.Action {
		case "step":
			seg, points, err := j.Step()
			if err != nil {
				a.publish(Event{Job: j.ID.String(), Type: "error", Error: err.Error()})
				continue
			}
			if seg != nil {
				info := seg.Common()
				a.publish(Event{
					Job:     j.ID.String(),
					Type:    "segment",
					Line:    info.Statement.Line,
					Command: info.Command,
					Kind:    seg.Kind(),
					Points:  points,
					Elapsed: info.StartTime + info.Duration,
				})
			}
		case "skip":
			j.Skip()
		case "play":
			j.Play()
		case "pause":
			j.Pause()
		case "reset":
			j.Reset()
			a.publish(Event{Job: j.ID.String(), Type: "reset"})
		default:
			logrus.WithField("action", cmd.Action).Warn("unknown ws action")
		}
	}
}
