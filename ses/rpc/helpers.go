// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package rpc

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/rpc/v2"
	"github.com/jpillora/ipfilter"

	"github.com/ChainSafe/shardcode/ses/rpc/modules"
)

// LocalhostFilter creates an ipfilter object allowing only localhost
func LocalhostFilter() *ipfilter.IPFilter {
	return ipfilter.New(ipfilter.Options{
		BlockByDefault: true,
		AllowedIPs:     []string{"127.0.0.1", "::1"},
	})
}

// LocalRequestOnly rejects requests from non-local addresses
func LocalRequestOnly(r *rpc.RequestInfo, v interface{}) error {
	ip, _, err := net.SplitHostPort(r.Request.RemoteAddr)
	if err != nil {
		return errors.New("unable to parse IP")
	}

	f := LocalhostFilter()
	if allowed := f.Allowed(ip); allowed {
		return nil
	}
	return errors.New("external HTTP request refused")
}

func snakeCaseFormat(method string) (string, error) {
	parts := strings.Split(method, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid rpc method format %s, should be 'module.FunctionName'", method)
	}

	service, funcName := parts[0], parts[1]
	funcName = strings.ToLower(string(funcName[0])) + funcName[1:]
	return strings.Join([]string{service, funcName}, "_"), nil
}

func rpcValidator(cfg *HTTPServerConfig, validate *validator.Validate) func(r *rpc.RequestInfo, v interface{}) error {
	return func(r *rpc.RequestInfo, v interface{}) error {
		rpcmethod, err := snakeCaseFormat(r.Method)
		if err != nil {
			return err
		}

		if modules.IsUnsafe(rpcmethod) && !cfg.rpcUnsafeEnabled() {
			return fmt.Errorf("unsafe rpc method %s cannot be reachable", rpcmethod)
		}

		if v != nil {
			if err := validate.Struct(v); err != nil {
				return err
			}
		}

		if !cfg.exposeRPC() {
			return LocalRequestOnly(r, v)
		}
		return nil
	}
}
