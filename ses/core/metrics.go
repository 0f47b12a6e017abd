// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deploysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "deploys_total",
		Help:      "total number of handled deploy actions",
	}, []string{"kind"})

	touchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "reference_touches_total",
		Help:      "total number of reference renewals through code resolution",
	})

	softLockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "soft_locked_resolutions_total",
		Help:      "total number of resolutions rejected because the referenced code was swept",
	})

	sharedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "shared_code_bytes_total",
		Help:      "total bytes of code written to the shared store",
	})

	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "sweeps_total",
		Help:      "total number of epoch-boundary sweeps",
	})

	sweptReferencesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "swept_references_total",
		Help:      "total number of references removed by sweeps",
	})

	liveReferences = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "live_references",
		Help:      "number of live references in the store",
	})

	currentEpoch = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shardcode",
		Subsystem: "core",
		Name:      "current_epoch",
		Help:      "current epoch of the shard",
	})
)
