package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PostsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "posts_seen_total", Help: "Count of stream posts inspected while listening for a signal"},
	)
	PricePollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "price_polls_total", Help: "Ticker price reads issued during the holding loop"},
		[]string{"market"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted"},
		[]string{"market", "side"},
	)
)

func init() {
	prometheus.MustRegister(PostsTotal, PricePollsTotal, OrdersTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{ Addr: addr, Handler: mux }
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
