// Package driver dispatches solver checks across a bounded worker pool and
// aggregates their verdicts into report results.
package driver

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	checksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rebecca_checks_total",
		Help: "Total number of security checks run, labeled by kind and outcome.",
	}, []string{"kind", "secure"})

	checkDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rebecca_check_duration_seconds",
		Help:    "Wall time spent solving a single security check.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(checksTotal, checkDurationSeconds)
}

// Registerer exposes the package's collectors so a caller (e.g. the CLI's
// --metrics-addr flag handling) can wire them into its own registry instead
// of the global default, if desired.
func Registerer() []prometheus.Collector {
	return []prometheus.Collector{checksTotal, checkDurationSeconds}
}

// ServeMetrics starts a background Prometheus /metrics endpoint on addr for
// long-running batch verification runs to scrape. It does not block; the
// server runs until the process exits.
func ServeMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("starting metrics server", slog.String("address", addr))
	go func() {
		server := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 3 * time.Second,
		}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", slog.String("error", err.Error()))
		}
	}()
}
