// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package metrics implements the prometheus metrics server
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = log.New("pkg", "metrics")

const shutdownTimeout = 5 * time.Second

// Server serves the default prometheus registry over HTTP
type Server struct {
	server *http.Server
}

// NewServer creates a metrics server listening on the given address
func NewServer(address string) *Server {
	r := http.NewServeMux()
	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		server: &http.Server{
			Addr:    address,
			Handler: r,
		},
	}
}

// Start begins serving metrics
func (s *Server) Start() error {
	logger.Info("starting metrics server...", "address", fmt.Sprintf("http://%s/metrics", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "err", err)
		}
	}()
	return nil
}

// Stop shuts the metrics server down
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
