// Package monitor exposes the server's prometheus metrics.
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stackpot",
		Name:      "active_sessions",
		Help:      "Number of live game sessions",
	})
	connectedPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stackpot",
		Name:      "connected_players",
		Help:      "Number of open player connections",
	})
	sessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stackpot",
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created",
	})
	actionsForwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stackpot",
		Name:      "actions_forwarded_total",
		Help:      "Total number of player actions forwarded to sessions",
	})
)

func init() {
	prometheus.MustRegister(activeSessions, connectedPlayers, sessionsCreated, actionsForwarded)
}

func SetActiveSessions(n int) { activeSessions.Set(float64(n)) }

func PlayerConnected()    { connectedPlayers.Inc() }
func PlayerDisconnected() { connectedPlayers.Dec() }

func SessionCreated()  { sessionsCreated.Inc() }
func ActionForwarded() { actionsForwarded.Inc() }

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
