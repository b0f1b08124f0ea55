package sales

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var salesFinalized = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mercado_sales_finalized_total",
	Help: "Number of sales finalized since startup.",
})
