package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParcelsBookedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "profast_parcels_booked_total",
		Help: "Total number of parcels successfully booked.",
	})

	ParcelsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "profast_parcels_cancelled_total",
		Help: "Total number of unpaid parcels cancelled.",
	})

	PaymentsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profast_payments_recorded_total",
		Help: "Total number of payments recorded, by source.",
	},
		[]string{"source"},
	)

	DeliveryTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profast_delivery_transitions_total",
		Help: "Total number of delivery status changes, by target status.",
	},
		[]string{"status"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profast_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
