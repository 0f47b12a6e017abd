// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package rpc

import (
	"reflect"
	"strings"
)

// Service holds the registered RPC modules and the names of their
// exposed methods
type Service struct {
	Services   map[string]interface{}
	rpcMethods []string
}

// NewService creates an empty rpc service
func NewService() *Service {
	return &Service{
		Services: make(map[string]interface{}),
	}
}

// Methods returns the `module_method` names of every registered method
func (s *Service) Methods() []string {
	return s.rpcMethods
}

// BuildMethodNames collects the exposed methods of the given module
// receiver under its module name
func (s *Service) BuildMethodNames(rcvr interface{}, name string) {
	s.Services[name] = rcvr

	rcvrType := reflect.TypeOf(rcvr)
	for i := 0; i < rcvrType.NumMethod(); i++ {
		method := rcvrType.Method(i)
		mtype := method.Type
		// an exposed method takes the receiver, *http.Request, *args
		// and *reply, and returns an error
		if mtype.NumIn() != 4 || mtype.NumOut() != 1 {
			continue
		}

		s.rpcMethods = append(s.rpcMethods,
			name+"_"+strings.ToLower(method.Name[:1])+method.Name[1:])
	}
}
