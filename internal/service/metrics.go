package service

import "github.com/prometheus/client_golang/prometheus"

var TaskOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "task_operations_total",
		Help: "Task mutations by operation and outcome",
	},
	[]string{"op", "outcome"},
)

func init() {
	prometheus.MustRegister(TaskOperations)
}
