// Package metrics provides optional observability for the writer
// pipeline: a bytes-written counter and a blocks-written counter,
// exposed over HTTP via promhttp when --metrics-addr is set. It is
// never required for correct operation of the CLI: cmd/randquik
// creates a Recorder, and the writer pipeline updates its counters,
// only when --metrics-addr is set.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the writer pipeline's view of metrics: two monotonic
// counters, cheap enough to bump on every block write.
type Recorder struct {
	BytesWritten  prometheus.Counter
	BlocksWritten prometheus.Counter

	registry *prometheus.Registry
}

// New builds a Recorder registered on a private registry, so randquik
// never pollutes the default global registry other embedders may use.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "randquik_bytes_written_total",
			Help: "Total number of keystream bytes written to the output.",
		}),
		BlocksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "randquik_blocks_written_total",
			Help: "Total number of 2MiB writer blocks written to the output.",
		}),
		registry: reg,
	}
	reg.MustRegister(r.BytesWritten, r.BlocksWritten)
	return r
}

// Serve starts an HTTP server exposing /metrics on addr and blocks
// until ctx is cancelled or the server fails. It is meant to be run in
// its own goroutine from cmd/randquik when --metrics-addr is set.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
