// Package metrics exposes simulator counters over HTTP.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	LinkEvents  *prometheus.CounterVec
	LinkDropped prometheus.Counter
	EyeMoves    *prometheus.CounterVec
	Blinks      prometheus.Counter
	InputEvents *prometheus.CounterVec
	MouthModes  *prometheus.CounterVec
	LEDRestarts prometheus.Counter
	MoveSteps   prometheus.Histogram
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LinkEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_link_events_total",
			Help: "Sync events by direction (tx, rx) and kind (color, mode).",
		}, []string{"direction", "kind"}),
		LinkDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "face_link_dropped_tokens_total",
			Help: "Malformed tokens discarded by the mouth receiver.",
		}),
		EyeMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_eye_moves_total",
			Help: "Completed gaze moves, by whether both eyes shared the target.",
		}, []string{"synced"}),
		Blinks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "face_blinks_total",
			Help: "Blink sequences.",
		}),
		InputEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_input_events_total",
			Help: "Handled encoder and button events.",
		}, []string{"event"}),
		MouthModes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_mouth_mode_changes_total",
			Help: "Mouth mode changes by resulting mode.",
		}, []string{"mode"}),
		LEDRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "face_led_restarts_total",
			Help: "LED pattern re-randomizations.",
		}),
		MoveSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "face_eye_move_steps",
			Help:    "Interpolation steps per gaze move.",
			Buckets: prometheus.LinearBuckets(5, 1, 6),
		}),
	}
	reg.MustRegister(m.LinkEvents, m.LinkDropped, m.EyeMoves, m.Blinks,
		m.InputEvents, m.MouthModes, m.LEDRestarts, m.MoveSteps)
	return m
}

func (m *Metrics) Move(steps int, synced bool) {
	m.EyeMoves.WithLabelValues(strconv.FormatBool(synced)).Inc()
	m.MoveSteps.Observe(float64(steps))
}

// NewRouter serves /metrics from g, /state as JSON from state, and /healthz.
func NewRouter(g prometheus.Gatherer, state func() any) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok\n")
	})
	return r
}

// Serve runs h on addr until ctx ends.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	stop := context.AfterFunc(ctx, func() {
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	})
	defer stop()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
