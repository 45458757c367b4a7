package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	addr := flag.String("addr", ":9092", "Address to bind the emulator server to.")
	dir := flag.String("dir", "./data", "Program directory to use.")
	scale := flag.Float64("scale", 1000, "Divisor converting program units to machine units.")
	resolution := flag.Float64("resolution", 5, "Playback sampling resolution, points per unit length.")
	tolerance := flag.Float64("tolerance", 0.001, "Default path reduction tolerance.")
	interval := flag.Duration("interval", 100*time.Millisecond, "Playback step interval.")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("parse log level: %v", err)
	}
	logrus.SetLevel(level)

	api := newAPI(apiConfig{
		DataDir:    *dir,
		Scale:      *scale,
		Resolution: *resolution,
		Tolerance:  *tolerance,
		Interval:   *interval,
	})

	logrus.Infof("listening on %s", *addr)
	err = http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		logrus.Debugf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		logrus.Fatal(err)
	}
}
