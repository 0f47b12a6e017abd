// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package rpc implements the node's JSON-RPC server
package rpc

import (
	"fmt"
	"net"
	"net/http"
	"os"

	log "github.com/ChainSafe/log15"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/websocket"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/ses/rpc/modules"
	"github.com/ChainSafe/shardcode/ses/rpc/subscription"
)

var logger = log.New("pkg", "rpc")

// HTTPServer gateway for the RPC server
type HTTPServer struct {
	logger       log.Logger
	rpcServer    *rpc.Server // actual RPC call handler
	serverConfig *HTTPServerConfig
	wsConns      []*subscription.WSConn
}

// HTTPServerConfig configures the HTTPServer
type HTTPServerConfig struct {
	LogLvl            log.Lvl
	CoreAPI           modules.CoreAPI
	SystemAPI         modules.SystemAPI
	ReferenceAPI      modules.ReferenceAPI
	SweepAPI          subscription.SweepAPI
	RPCAPI            modules.RPCAPI
	Host              string
	RPCPort           uint32
	RPCExternal       bool
	RPCUnsafe         bool
	RPCUnsafeExternal bool
	WS                bool
	WSExternal        bool
	WSPort            uint32
	Modules           []string
}

func (h *HTTPServerConfig) rpcUnsafeEnabled() bool {
	return h.RPCUnsafe || h.RPCUnsafeExternal
}

func (h *HTTPServerConfig) exposeRPC() bool {
	return h.RPCExternal || h.RPCUnsafeExternal
}

// NewHTTPServer creates a new http server and registers an associated
// rpc server
func NewHTTPServer(cfg *HTTPServerConfig) *HTTPServer {
	hnd := log.StreamHandler(os.Stdout, log.TerminalFormat())
	logger.SetHandler(log.LvlFilterHandler(cfg.LogLvl, hnd))

	server := &HTTPServer{
		logger:       logger,
		rpcServer:    rpc.NewServer(),
		serverConfig: cfg,
	}

	server.RegisterModules(cfg.Modules)
	return server
}

// RegisterModules registers the RPC services associated with the given
// API modules
func (h *HTTPServer) RegisterModules(mods []string) {
	for _, mod := range mods {
		h.logger.Debug("enabling rpc module", "module", mod)

		var srvc interface{}
		switch mod {
		case "system":
			srvc = modules.NewSystemModule(h.serverConfig.SystemAPI, h.serverConfig.CoreAPI)
		case "state":
			srvc = modules.NewStateModule(h.serverConfig.CoreAPI, h.serverConfig.ReferenceAPI)
		case "author":
			srvc = modules.NewAuthorModule(h.logger, h.serverConfig.CoreAPI)
		case "dev":
			srvc = modules.NewDevModule(h.serverConfig.CoreAPI)
		case "rpc":
			srvc = modules.NewRPCModule(h.serverConfig.RPCAPI)
		default:
			h.logger.Warn("unrecognised module", "module", mod)
			continue
		}

		if err := h.rpcServer.RegisterService(srvc, mod); err != nil {
			h.logger.Warn("failed to register module", "mod", mod, "err", err)
		}

		h.serverConfig.RPCAPI.BuildMethodNames(srvc, mod)
	}
}

// Start registers the rpc handler function and starts the rpc http and
// websocket servers
func (h *HTTPServer) Start() error {
	h.rpcServer.RegisterCodec(NewSesUpCodec(), "application/json")
	h.rpcServer.RegisterCodec(NewSesUpCodec(), "application/json;charset=UTF-8")

	h.logger.Info("starting HTTP server...", "host", h.serverConfig.Host, "port", h.serverConfig.RPCPort)
	r := mux.NewRouter()
	r.Handle("/", h.rpcServer)

	validate := validator.New()
	validate.RegisterCustomTypeFunc(common.HashValidator, common.Hash{})

	h.rpcServer.RegisterValidateRequestFunc(rpcValidator(h.serverConfig, validate))

	go func() {
		err := http.ListenAndServe(fmt.Sprintf("%s:%d", h.serverConfig.Host, h.serverConfig.RPCPort), r)
		if err != nil {
			h.logger.Error("http error", "err", err)
		}
	}()

	if !h.serverConfig.WS {
		return nil
	}

	h.logger.Info("starting WebSocket server...", "host", h.serverConfig.Host, "port", h.serverConfig.WSPort)
	ws := mux.NewRouter()
	ws.Handle("/", h)
	go func() {
		err := http.ListenAndServe(fmt.Sprintf("%s:%d", h.serverConfig.Host, h.serverConfig.WSPort), ws)
		if err != nil {
			h.logger.Error("websocket error", "err", err)
		}
	}()

	return nil
}

// Stop closes all websocket connections and their subscriptions
func (h *HTTPServer) Stop() error {
	if !h.serverConfig.WS {
		return nil
	}

	for _, conn := range h.wsConns {
		conn.Close()
	}
	return nil
}

// ServeHTTP implemented to handle WebSocket connections
func (h *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upg := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if h.serverConfig.WSExternal {
				return true
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				logger.Error("unable to parse IP", "err", err)
				return false
			}

			f := LocalhostFilter()
			if allowed := f.Allowed(ip); allowed {
				return true
			}

			logger.Debug("external websocket request refused", "addr", r.RemoteAddr)
			return false
		},
	}

	ws, err := upg.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	wsc := subscription.NewWSConn(ws, h.serverConfig.SweepAPI)
	h.wsConns = append(h.wsConns, wsc)

	go wsc.HandleComm()
}
