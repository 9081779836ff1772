// Package metrics exposes facility occupancy to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fulldump/lockerdesk/service"
)

const namespace = "lockerdesk"

var (
	lockersTotalDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "lockers", "total"),
		"Number of lockers in the facility",
		[]string{"facility"}, nil,
	)
	lockersRentedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "lockers", "rented"),
		"Number of rented lockers",
		[]string{"facility"}, nil,
	)
	lockersOutOfCommissionDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "lockers", "out_of_commission"),
		"Number of lockers withdrawn for maintenance",
		[]string{"facility"}, nil,
	)
	lockersOccupiedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "lockers", "occupied"),
		"Number of rented lockers holding contents",
		[]string{"facility"}, nil,
	)
	lockersAvailableDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "lockers", "available"),
		"Number of lockers that can be rented right now",
		[]string{"facility"}, nil,
	)
)

// Collector reads facility stats at scrape time, nothing is cached.
type Collector struct {
	s service.Servicer
}

func NewCollector(s service.Servicer) *Collector {
	return &Collector{s: s}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- lockersTotalDesc
	ch <- lockersRentedDesc
	ch <- lockersOutOfCommissionDesc
	ch <- lockersOccupiedDesc
	ch <- lockersAvailableDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, f := range c.s.ListFacilities() {
		stats := f.Stats()
		ch <- prometheus.MustNewConstMetric(lockersTotalDesc, prometheus.GaugeValue, float64(stats.Total), name)
		ch <- prometheus.MustNewConstMetric(lockersRentedDesc, prometheus.GaugeValue, float64(stats.Rented), name)
		ch <- prometheus.MustNewConstMetric(lockersOutOfCommissionDesc, prometheus.GaugeValue, float64(stats.OutOfCommission), name)
		ch <- prometheus.MustNewConstMetric(lockersOccupiedDesc, prometheus.GaugeValue, float64(stats.Occupied), name)
		ch <- prometheus.MustNewConstMetric(lockersAvailableDesc, prometheus.GaugeValue, float64(stats.Available), name)
	}
}
