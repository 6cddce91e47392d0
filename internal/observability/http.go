package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the advisio-namespaced collectors for Prometheus
// scraping through the fiber adaptor. Gather errors do not abort the scrape.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	handler := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
	return adaptor.HTTPHandler(handler)
}
