package middleware

import (
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/districtnet/wifi-dashboard/metrics"
)

// Instrument counts requests by method and status class
func Instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			statusClass := strconv.Itoa(ww.Status()/100) + "xx"
			m.HTTPRequestsTotal.WithLabelValues(r.Method, statusClass).Inc()
		})
	}
}
