// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package subscription implements websocket subscriptions to sweep
// events
package subscription

import (
	"encoding/json"
	"fmt"
	"sync"

	log "github.com/ChainSafe/log15"
	"github.com/gorilla/websocket"

	"github.com/ChainSafe/shardcode/ses/types"
)

var logger = log.New("pkg", "subscription")

// SweepAPI is the interface for subscribing to sweep results
type SweepAPI interface {
	GetSweepNotifierChannel() chan *types.SweepResult
	FreeSweepNotifierChannel(ch chan *types.SweepResult)
}

// WSConn is a websocket connection and its active subscriptions
type WSConn struct {
	Wsconn        *websocket.Conn
	mu            sync.Mutex
	qtyListeners  uint32
	Subscriptions map[uint32]Listener
	sweepAPI      SweepAPI
}

// NewWSConn creates a new websocket connection struct
func NewWSConn(conn *websocket.Conn, sweepAPI SweepAPI) *WSConn {
	return &WSConn{
		Wsconn:        conn,
		Subscriptions: make(map[uint32]Listener),
		sweepAPI:      sweepAPI,
	}
}

// wsRequest is an incoming websocket JSON-RPC message
type wsRequest struct {
	ID     float64       `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// HandleComm handles messages on the websocket connection until it
// closes
func (c *WSConn) HandleComm() {
	for {
		_, mbytes, err := c.Wsconn.ReadMessage()
		if err != nil {
			logger.Debug("websocket failed to read message", "err", err)
			c.Close()
			return
		}

		logger.Trace("websocket received", "message", mbytes)

		var req wsRequest
		if err := json.Unmarshal(mbytes, &req); err != nil {
			c.safeSendError(0, fmt.Errorf("invalid request: %w", err))
			continue
		}

		switch req.Method {
		case "state_subscribeSweeps":
			listener := c.initSweepListener()
			c.safeSend(newSubscriptionResponse(req.ID, listener.subID))
			go listener.Listen()
		case "state_unsubscribeSweeps":
			ok := c.unsubscribe(req.Params)
			c.safeSend(newBoolResponse(req.ID, ok))
		default:
			c.safeSendError(req.ID, fmt.Errorf("unknown method %s", req.Method))
		}
	}
}

func (c *WSConn) initSweepListener() *SweepListener {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.qtyListeners++
	listener := &SweepListener{
		channel: c.sweepAPI.GetSweepNotifierChannel(),
		wsconn:  c,
		subID:   c.qtyListeners,
	}
	c.Subscriptions[listener.subID] = listener
	return listener
}

func (c *WSConn) unsubscribe(params []interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(params) != 1 {
		return false
	}
	id, ok := params[0].(float64)
	if !ok {
		return false
	}

	listener, ok := c.Subscriptions[uint32(id)]
	if !ok {
		return false
	}

	listener.Stop()
	delete(c.Subscriptions, uint32(id))
	return true
}

// Close stops every subscription and closes the connection
func (c *WSConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, listener := range c.Subscriptions {
		listener.Stop()
		delete(c.Subscriptions, id)
	}

	if err := c.Wsconn.Close(); err != nil {
		logger.Debug("error closing websocket connection", "err", err)
	}
}

func (c *WSConn) safeSend(msg interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.Wsconn.WriteJSON(msg); err != nil {
		logger.Debug("error sending websocket message", "err", err)
	}
}

func (c *WSConn) safeSendError(reqID float64, err error) {
	c.safeSend(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      reqID,
		"error": map[string]interface{}{
			"code":    float64(-32600),
			"message": err.Error(),
		},
	})
}

type subscriptionResponse struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      float64 `json:"id"`
	Result  uint32  `json:"result"`
}

func newSubscriptionResponse(reqID float64, subID uint32) subscriptionResponse {
	return subscriptionResponse{
		Jsonrpc: "2.0",
		ID:      reqID,
		Result:  subID,
	}
}

type boolResponse struct {
	Jsonrpc string  `json:"jsonrpc"`
	ID      float64 `json:"id"`
	Result  bool    `json:"result"`
}

func newBoolResponse(reqID float64, result bool) boolResponse {
	return boolResponse{
		Jsonrpc: "2.0",
		ID:      reqID,
		Result:  result,
	}
}
