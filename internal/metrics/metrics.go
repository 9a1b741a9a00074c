// Package metrics регистрирует счётчики Prometheus движка генерации.
// Отдаются через promhttp на /metrics обоих бинарников.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal — число выполненных циклов генерации.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signupgen_cycles_total",
		Help: "Total number of generation cycles executed.",
	})

	// GeneratedTotal — число сгенерированных записей.
	GeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signupgen_generated_total",
		Help: "Total number of synthetic signups generated.",
	})

	// CommentsTotal — число записей, получивших комментарий.
	CommentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signupgen_comments_total",
		Help: "Total number of generated signups enriched with a comment.",
	})

	// SubmittedTotal — число записей, успешно отправленных на приёмный эндпоинт.
	SubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signupgen_submitted_total",
		Help: "Total number of generated signups submitted to the intake endpoint.",
	})

	// FailedTotal — число записей, которые не удалось отправить.
	FailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signupgen_failed_total",
		Help: "Total number of signups that failed generation or submission.",
	})
)
