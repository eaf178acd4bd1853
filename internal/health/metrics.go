package health

import (
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics exposes the latest sample as Prometheus gauges.
type Metrics struct {
	registry  *prometheus.Registry
	gauges    map[Kind]prometheus.Gauge
	processes prometheus.Gauge
	breaches  *prometheus.CounterVec
}

// NewMetrics registers the healthcheck metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gauges: map[Kind]prometheus.Gauge{
			KindCPU: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "healthcheck",
				Name:      "cpu_percent",
				Help:      "Host CPU utilization over the last sample window.",
			}),
			KindMemory: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "healthcheck",
				Name:      "memory_percent",
				Help:      "Host memory in use.",
			}),
			KindDisk: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "healthcheck",
				Name:      "disk_percent",
				Help:      "Disk space in use on the watched filesystem.",
			}),
		},
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "healthcheck",
			Name:      "processes_over_threshold",
			Help:      "Processes above the CPU threshold in the last sample.",
		}),
		breaches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthcheck",
			Name:      "breaches_total",
			Help:      "Threshold breaches seen, by kind.",
		}, []string{"kind"}),
	}

	for _, g := range m.gauges {
		m.registry.MustRegister(g)
	}
	m.registry.MustRegister(m.processes, m.breaches)

	return m
}

// Observe records a sample and the breaches found in it.
func (m *Metrics) Observe(s Sample, breaches []Breach) {
	m.gauges[KindCPU].Set(s.CPU)
	m.gauges[KindMemory].Set(s.Memory)
	m.gauges[KindDisk].Set(s.Disk)

	procs := 0
	for _, b := range breaches {
		m.breaches.WithLabelValues(string(b.Kind)).Inc()
		if b.Kind == KindProcess {
			procs++
		}
	}
	m.processes.Set(float64(procs))
}

// Gatherer returns the registry backing m.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves /metrics and writes one combined-format access line per
// request to accessLog.
func (m *Metrics) Handler(accessLog io.Writer) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})).
		Methods(http.MethodGet)

	return handlers.CombinedLoggingHandler(accessLog, router)
}

// StartServer listens on addr and serves Handler in the background. Close
// the returned server to stop it.
func (m *Metrics) StartServer(addr string, log *logrus.Logger) (*http.Server, net.Addr, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen on %s", addr)
	}

	accessLog := log.WriterLevel(logrus.DebugLevel)
	server := &http.Server{
		Handler:      m.Handler(accessLog),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	server.RegisterOnShutdown(func() { accessLog.Close() })

	go func() {
		log.WithField("addr", lis.Addr().String()).Info("metrics endpoint listening")
		if err := server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	return server, lis.Addr(), nil
}
