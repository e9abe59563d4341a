package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

type hubCollector struct {
	hub *Hub

	rooms       *prometheus.Desc
	connections *prometheus.Desc
	sent        *prometheus.Desc
	received    *prometheus.Desc
	accepted    *prometheus.Desc
	rejected    *prometheus.Desc
	errors      *prometheus.Desc
	dropped     *prometheus.Desc
}

// Collector exposes the hub's gauges and counters to Prometheus.
func (h *Hub) Collector() prometheus.Collector {
	return &hubCollector{
		hub:         h,
		rooms:       prometheus.NewDesc("chat_ws_rooms", "Chats with a live broadcast group.", nil, nil),
		connections: prometheus.NewDesc("chat_ws_connections", "Open WebSocket sessions.", nil, nil),
		sent:        prometheus.NewDesc("chat_ws_broadcasts_total", "Events broadcast to chat groups.", nil, nil),
		received:    prometheus.NewDesc("chat_ws_frames_received_total", "Text frames received from clients.", nil, nil),
		accepted:    prometheus.NewDesc("chat_ws_sessions_opened_total", "Sessions that completed the handshake.", nil, nil),
		rejected:    prometheus.NewDesc("chat_ws_sessions_rejected_total", "Connections closed during the handshake.", nil, nil),
		errors:      prometheus.NewDesc("chat_ws_errors_total", "Action handling failures.", nil, nil),
		dropped:     prometheus.NewDesc("chat_ws_frames_dropped_total", "Outbound frames dropped on full queues.", nil, nil),
	}
}

func (c *hubCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rooms
	ch <- c.connections
	ch <- c.sent
	ch <- c.received
	ch <- c.accepted
	ch <- c.rejected
	ch <- c.errors
	ch <- c.dropped
}

func (c *hubCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.hub.GetStats()
	m := c.hub.Metrics()

	ch <- prometheus.MustNewConstMetric(c.rooms, prometheus.GaugeValue, float64(stats.TotalRooms))
	ch <- prometheus.MustNewConstMetric(c.connections, prometheus.GaugeValue, float64(stats.TotalConnections))
	ch <- prometheus.MustNewConstMetric(c.sent, prometheus.CounterValue, float64(m.MessagesSent.Load()))
	ch <- prometheus.MustNewConstMetric(c.received, prometheus.CounterValue, float64(m.MessagesReceived.Load()))
	ch <- prometheus.MustNewConstMetric(c.accepted, prometheus.CounterValue, float64(m.Connections.Load()))
	ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(m.Rejections.Load()))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(m.Errors.Load()))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(m.Dropped.Load()))
}
