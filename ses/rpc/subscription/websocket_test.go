// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package subscription

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/types"
)

type mockSweepAPI struct {
	ch chan *types.SweepResult
}

func (m *mockSweepAPI) GetSweepNotifierChannel() chan *types.SweepResult {
	return m.ch
}

func (m *mockSweepAPI) FreeSweepNotifierChannel(chan *types.SweepResult) {}

// setupWSConn upgrades a test http server connection and returns both
// ends of it
func setupWSConn(t *testing.T, api SweepAPI) (*WSConn, *websocket.Conn) {
	t.Helper()

	wsconn := make(chan *WSConn, 1)
	h := func(w http.ResponseWriter, r *http.Request) {
		upg := websocket.Upgrader{}
		ws, err := upg.Upgrade(w, r, nil)
		require.NoError(t, err)

		c := NewWSConn(ws, api)
		wsconn <- c
		go c.HandleComm()
	}

	server := httptest.NewServer(http.HandlerFunc(h))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	return <-wsconn, client
}

func TestSubscribeSweeps(t *testing.T) {
	api := &mockSweepAPI{ch: make(chan *types.SweepResult, 4)}
	_, client := setupWSConn(t, api)

	err := client.WriteMessage(websocket.TextMessage,
		[]byte(`{"id":1,"method":"state_subscribeSweeps","params":[]}`))
	require.NoError(t, err)

	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":1}`, string(msg))

	hash := common.MustBlake2bHash([]byte("swept wasm"))
	api.ch <- &types.SweepResult{
		Epoch: 7,
		Swept: []common.Hash{hash},
	}

	_, msg, err = client.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{
		"jsonrpc":"2.0",
		"method":"state_sweeps",
		"params":{
			"result":{"epoch":7,"swept":["`+hash.String()+`"]},
			"subscription":1
		}
	}`, string(msg))
}

func TestUnsubscribeSweeps(t *testing.T) {
	api := &mockSweepAPI{ch: make(chan *types.SweepResult)}
	conn, client := setupWSConn(t, api)

	err := client.WriteMessage(websocket.TextMessage,
		[]byte(`{"id":1,"method":"state_subscribeSweeps","params":[]}`))
	require.NoError(t, err)

	_, _, err = client.ReadMessage()
	require.NoError(t, err)

	err = client.WriteMessage(websocket.TextMessage,
		[]byte(`{"id":2,"method":"state_unsubscribeSweeps","params":[1]}`))
	require.NoError(t, err)

	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":2,"result":true}`, string(msg))

	require.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return len(conn.Subscriptions) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestUnsubscribe_UnknownID(t *testing.T) {
	api := &mockSweepAPI{ch: make(chan *types.SweepResult)}
	_, client := setupWSConn(t, api)

	err := client.WriteMessage(websocket.TextMessage,
		[]byte(`{"id":3,"method":"state_unsubscribeSweeps","params":[42]}`))
	require.NoError(t, err)

	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":3,"result":false}`, string(msg))
}

func TestUnknownMethod(t *testing.T) {
	api := &mockSweepAPI{ch: make(chan *types.SweepResult)}
	_, client := setupWSConn(t, api)

	err := client.WriteMessage(websocket.TextMessage,
		[]byte(`{"id":4,"method":"state_subscribeStorage","params":[]}`))
	require.NoError(t, err)

	_, msg, err := client.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(msg), "unknown method")
}
