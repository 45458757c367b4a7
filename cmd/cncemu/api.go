package main

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Ulrhol/cnc-emulator/gcode"
)

type apiConfig struct {
	DataDir    string
	Scale      float64
	Resolution float64
	Tolerance  float64
	Interval   time.Duration
}

type api struct {
	http.Handler
	cfg apiConfig
	sse *sse.Server

	mx   sync.Mutex
	jobs map[string]*Job

	wsMx      sync.Mutex
	wsClients map[chan Event]struct{}
}

func newAPI(cfg apiConfig) *api {
	r := mux.NewRouter()

	a := &api{
		Handler:   r,
		cfg:       cfg,
		jobs:      make(map[string]*Job),
		wsClients: make(map[chan Event]struct{}),
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	r.HandleFunc("/api/jobs", a.createJob).Methods("POST")
	r.HandleFunc("/api/jobs", a.listJobs).Methods("GET")
	r.HandleFunc("/api/jobs/{id}", a.jobStatus).Methods("GET")
	r.HandleFunc("/api/jobs/{id}", a.deleteJob).Methods("DELETE")
	r.HandleFunc("/api/jobs/{id}/step", a.jobAction((*Job).stepAction)).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/skip", a.jobAction((*Job).skipAction)).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/run", a.jobAction((*Job).runAction)).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/play", a.jobAction((*Job).playAction)).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/pause", a.jobAction((*Job).pauseAction)).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/reset", a.jobAction((*Job).resetAction)).Methods("POST")
	r.HandleFunc("/api/jobs/{id}/timeline", a.jobTimeline).Methods("GET")
	r.HandleFunc("/api/jobs/{id}/ws", a.jobSocket)

	fs := http.FileServer(http.Dir(cfg.DataDir))
	r.PathPrefix("/data/").Handler(http.StripPrefix("/data", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case "GET":
			fs.ServeHTTP(w, req)
		case "PUT":
			a.putFile(w, req)
		case "DELETE":
			a.deleteFile(w, req)
		default:
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})))

	r.PathPrefix("/events/").Handler(a.sse)
	r.HandleFunc("/", a.index).Methods("GET")

	return a
}

// publish fans an event out to the SSE channel and every connected
// websocket.
func (a *api) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.Errorf("marshal event: %v", err)
		return
	}
	a.sse.SendMessage("/events/jobs", sse.SimpleMessage(string(data)))

	a.wsMx.Lock()
	for ch := range a.wsClients {
		select {
		case ch <- ev:
		default:
			// Slow client; drop rather than stall playback.
		}
	}
	a.wsMx.Unlock()
}

func (a *api) subscribe() chan Event {
	ch := make(chan Event, 64)
	a.wsMx.Lock()
	a.wsClients[ch] = struct{}{}
	a.wsMx.Unlock()
	return ch
}

func (a *api) unsubscribe(ch chan Event) {
	a.wsMx.Lock()
	delete(a.wsClients, ch)
	a.wsMx.Unlock()
}

func (a *api) job(w http.ResponseWriter, req *http.Request) *Job {
	a.mx.Lock()
	j := a.jobs[mux.Vars(req)["id"]]
	a.mx.Unlock()
	if j == nil {
		http.Error(w, "no such job", http.StatusNotFound)
	}
	return j
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("encode response: %v", err)
	}
}

// createJob parses a program into a fresh job. The program comes from
// the request body, or from the data directory when ?file= names a
// stored program.
func (a *api) createJob(w http.ResponseWriter, req *http.Request) {
	var (
		src  io.Reader = req.Body
		name           = req.FormValue("name")
	)
	if file := req.FormValue("file"); file != "" {
		ok, full := safePath(a.cfg.DataDir, file)
		if !ok {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		f, err := os.Open(full)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		defer f.Close()
		src = f
		if name == "" {
			name = file
		}
	}

	prog, err := gcode.ReadProgram(src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(prog.Statements) == 0 {
		http.Error(w, "empty program", http.StatusBadRequest)
		return
	}

	j := newJob(name, prog, a.cfg.Scale, a.cfg.Resolution, a.cfg.Interval, a.publish)
	a.mx.Lock()
	a.jobs[j.ID.String()] = j
	a.mx.Unlock()

	logrus.WithFields(logrus.Fields{
		"job":        j.ID,
		"name":       name,
		"statements": len(prog.Statements),
	}).Info("job created")

	w.WriteHeader(http.StatusCreated)
	respondJSON(w, j.Status())
}

func (a *api) listJobs(w http.ResponseWriter, req *http.Request) {
	a.mx.Lock()
	statuses := make([]Status, 0, len(a.jobs))
	for _, j := range a.jobs {
		statuses = append(statuses, j.Status())
	}
	a.mx.Unlock()
	respondJSON(w, statuses)
}

func (a *api) jobStatus(w http.ResponseWriter, req *http.Request) {
	j := a.job(w, req)
	if j == nil {
		return
	}
	respondJSON(w, j.Status())
}

func (a *api) deleteJob(w http.ResponseWriter, req *http.Request) {
	a.mx.Lock()
	id := mux.Vars(req)["id"]
	j := a.jobs[id]
	delete(a.jobs, id)
	a.mx.Unlock()
	if j == nil {
		http.Error(w, "no such job", http.StatusNotFound)
		return
	}
	j.Pause()
}

// jobAction adapts a job method into a handler that runs it and
// responds with the updated status.
func (a *api) jobAction(fn func(*Job, http.ResponseWriter) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		j := a.job(w, req)
		if j == nil {
			return
		}
		if !fn(j, w) {
			return
		}
		respondJSON(w, j.Status())
	}
}

func (j *Job) stepAction(w http.ResponseWriter) bool {
	seg, points, err := j.Step()
	if err != nil {
		if isFinished(err) {
			http.Error(w, err.Error(), http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		}
		return false
	}
	if seg != nil {
		respondJSON(w, struct {
			Segment segmentJSON `json:"segment"`
			Points  interface{} `json:"points,omitempty"`
		}{segmentJSON{Kind: seg.Kind(), Segment: seg}, points})
		return false
	}
	return true
}

func (j *Job) skipAction(w http.ResponseWriter) bool {
	j.Skip()
	return true
}

func (j *Job) runAction(w http.ResponseWriter) bool {
	errs := j.Run()
	for _, err := range errs {
		logrus.WithField("job", j.ID).Warnf("run: %v", err)
	}
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		respondJSON(w, struct {
			Status Status   `json:"status"`
			Errors []string `json:"errors"`
		}{j.Status(), msgs})
		return false
	}
	return true
}

func (j *Job) playAction(w http.ResponseWriter) bool {
	j.Play()
	return true
}

func (j *Job) pauseAction(w http.ResponseWriter) bool {
	j.Pause()
	return true
}

func (j *Job) resetAction(w http.ResponseWriter) bool {
	j.Reset()
	return true
}

// segmentJSON tags a segment with its kind so clients can tell lines,
// arcs, tool changes and dwells apart.
type segmentJSON struct {
	Kind    string      `json:"kind"`
	Segment interface{} `json:"segment"`
}

func (a *api) jobTimeline(w http.ResponseWriter, req *http.Request) {
	j := a.job(w, req)
	if j == nil {
		return
	}

	reduced := req.FormValue("reduced") == "1"
	tolerance := a.cfg.Tolerance
	if s := req.FormValue("tolerance"); s != "" {
		var err error
		tolerance, err = strconv.ParseFloat(s, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	segs := j.Timeline(reduced, tolerance)
	out := make([]segmentJSON, len(segs))
	for i, seg := range segs {
		out[i] = segmentJSON{Kind: seg.Kind(), Segment: seg}
	}
	respondJSON(w, out)
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		logrus.Warnf("invalid path %q", name)
		return false, ""
	}
	dir := base
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.cfg.DataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	os.MkdirAll(filepath.Dir(name), 0755)
	f, err := os.Create(name)
	if err != nil {
		logrus.Errorf("create %q: %v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		logrus.Errorf("write %q: %v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.cfg.DataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		logrus.Errorf("delete %q: %v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) index(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexHTML)
}
