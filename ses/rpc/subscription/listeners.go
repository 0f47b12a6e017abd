// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package subscription

import (
	"github.com/ChainSafe/shardcode/ses/types"
)

// Listener is a subscription streaming events to a websocket connection
type Listener interface {
	Listen()
	Stop()
}

// SweepListener streams sweep results to its connection
type SweepListener struct {
	channel chan *types.SweepResult
	wsconn  *WSConn
	subID   uint32
}

// sweepNotification is the JSON-RPC notification sent per sweep
type sweepNotification struct {
	Jsonrpc string                  `json:"jsonrpc"`
	Method  string                  `json:"method"`
	Params  sweepNotificationParams `json:"params"`
}

type sweepNotificationParams struct {
	Result       *types.SweepResult `json:"result"`
	Subscription uint32             `json:"subscription"`
}

// Listen forwards sweep results until the notifier channel closes or
// the listener is stopped
func (l *SweepListener) Listen() {
	for result := range l.channel {
		l.wsconn.safeSend(sweepNotification{
			Jsonrpc: "2.0",
			Method:  "state_sweeps",
			Params: sweepNotificationParams{
				Result:       result,
				Subscription: l.subID,
			},
		})
	}
}

// Stop frees the notifier channel, ending Listen
func (l *SweepListener) Stop() {
	l.wsconn.sweepAPI.FreeSweepNotifierChannel(l.channel)
	close(l.channel)
}
