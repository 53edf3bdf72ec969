package logserve

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/lvotypko/javatest-report/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LogOpener is implemented by report.ReportTree.
type LogOpener interface {
	Log(ctx context.Context, nodePath []string, id string) (*report.Log, error)
}

// Handler serves the captured log of a record: GET /log?node=<id>&node=<id>&id=<record id>.
// The node parameters are the ids from the report root down to the record's owner.
type Handler struct {
	logs    LogOpener
	logger  log.Logger
	metrics *Metrics
}

// NewHandler ...
func NewHandler(logs LogOpener, logger log.Logger, metrics *Metrics) *Handler {
	return &Handler{
		logs:    logs,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	id := query.Get("id")
	if id == "" {
		h.metrics.observe(resultBadRequest)
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}

	lg, err := h.logs.Log(r.Context(), query["node"], id)
	if err != nil {
		if report.IsNotFound(err) {
			h.metrics.observe(resultNotFound)
			h.logger.Debugf("Log unavailable for %s: %s", id, err)
			http.Error(w, "log unavailable", http.StatusNotFound)
			return
		}
		h.metrics.observe(resultError)
		h.logger.Warnf("Failed to open log for %s: %s", id, err)
		http.Error(w, "failed to read log", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := lg.Close(); err != nil {
			h.logger.Warnf("Failed to close log %s: %s", lg.Name, err)
		}
	}()

	h.metrics.observe(string(lg.Source))

	if !lg.ModTime.IsZero() {
		modTime := lg.ModTime.UTC().Truncate(time.Second)
		if since, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil && !modTime.After(since) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Last-Modified", modTime.Format(http.TimeFormat))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if lg.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(lg.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, lg); err != nil {
		h.logger.Warnf("Failed to stream log %s: %s", lg.Name, err)
	}
}

// NewMux routes /log to h and /metrics to the gatherer.
func NewMux(h *Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/log", h)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// NewServer ...
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
