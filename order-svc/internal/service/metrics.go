package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	OrdersCreated          prometheus.Counter
	StatusTransitions      *prometheus.CounterVec
	RecommendationRequests prometheus.Counter
	MenuChanges            *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders accepted by the order service",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Order status changes by source and target status",
		}, []string{"from", "to"}),
		RecommendationRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Recommendation requests served",
		}),
		MenuChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_item_changes_total",
			Help: "Menu management changes by action",
		}, []string{"action"}),
	}
	reg.MustRegister(m.OrdersCreated, m.StatusTransitions, m.RecommendationRequests, m.MenuChanges)
	return m
}
