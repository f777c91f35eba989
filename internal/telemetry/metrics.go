package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	FilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datasweep_files_total",
		Help: "Files loaded, by input format and result.",
	}, []string{"format", "result"})

	RowsRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datasweep_rows_removed_total",
		Help: "Duplicate rows removed.",
	})

	CellsFilled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "datasweep_cells_filled_total",
		Help: "Missing numeric cells filled with a column mean.",
	})

	Conversions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datasweep_conversions_total",
		Help: "Tables serialized, by target format.",
	}, []string{"target"})
)

func init() {
	Registry.MustRegister(FilesTotal, RowsRemoved, CellsFilled, Conversions)
}

// Expose serves /metrics on port in the background.
func Expose(port int) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()
}
