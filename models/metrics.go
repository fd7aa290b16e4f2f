package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// classResolutions counts owning-class resolutions.
// Labels: backend ("source", "reflection"), result ("ok", "error").
var classResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "annomodel_class_resolutions_total",
	Help: "Owning-class resolutions of enum values by backend and result",
}, []string{"backend", "result"})

func recordResolution(backend Backend, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	classResolutions.WithLabelValues(string(backend), result).Inc()
}
