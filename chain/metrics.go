// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"strconv"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type chainMetrics struct {
	messagesProcessed prometheus.Counter
	txsAborted        *prometheus.CounterVec
	deployments       prometheus.Counter
	bounces           prometheus.Counter
	stateChanges      prometheus.Counter

	executeLatency metric.Averager
}

func newMetrics(r prometheus.Registerer) (*chainMetrics, error) {
	executeLatency, err := metric.NewAverager(
		"chain_execute_latency",
		"time spent executing a single transaction",
		r,
	)
	if err != nil {
		return nil, err
	}

	m := &chainMetrics{
		messagesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "messages_processed",
			Help:      "number of messages delivered to an account",
		}),
		txsAborted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_aborted",
			Help:      "number of aborted transactions by exit code",
		}, []string{"exit_code"}),
		deployments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "deployments",
			Help:      "number of contracts deployed",
		}),
		bounces: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "bounces",
			Help:      "number of bounced messages",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_changes",
			Help:      "number of state changes flushed",
		}),
		executeLatency: executeLatency,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.messagesProcessed),
		r.Register(m.txsAborted),
		r.Register(m.deployments),
		r.Register(m.bounces),
		r.Register(m.stateChanges),
	)
	return m, errs.Err
}

func (m *chainMetrics) recordAbort(code int32) {
	m.txsAborted.WithLabelValues(strconv.Itoa(int(code))).Inc()
}
