// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package services implements the node service registry
package services

import (
	"reflect"

	log "github.com/ChainSafe/log15"
)

// Service must be implemented by all node services
type Service interface {
	Start() error
	Stop() error
}

// ServiceRegistry is a structure to manage core node services
type ServiceRegistry struct {
	services     map[reflect.Type]Service // map of types to service instances
	serviceTypes []reflect.Type           // all known service types, used to iterate through services
	logger       log.Logger
}

// NewServiceRegistry creates an empty registry
func NewServiceRegistry(logger log.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[reflect.Type]Service),
		logger:   logger,
	}
}

// RegisterService stores a new service in the map. If a service of that
// type has already been registered, the call is ignored.
func (s *ServiceRegistry) RegisterService(service Service) {
	kind := reflect.TypeOf(service)
	if _, exists := s.services[kind]; exists {
		s.logger.Warn("service already registered", "type", kind)
		return
	}
	s.services[kind] = service
	s.serviceTypes = append(s.serviceTypes, kind)
}

// StartAll calls Start for all registered services, in registration order
func (s *ServiceRegistry) StartAll() {
	s.logger.Info("starting services", "services", s.serviceTypes)
	for _, typ := range s.serviceTypes {
		s.logger.Debug("starting service", "type", typ)
		if err := s.services[typ].Start(); err != nil {
			s.logger.Error("cannot start service", "type", typ, "err", err)
		}
	}
	s.logger.Debug("all services started")
}

// StopAll calls Stop for all registered services, in registration order
func (s *ServiceRegistry) StopAll() {
	s.logger.Info("stopping services", "services", s.serviceTypes)
	for _, typ := range s.serviceTypes {
		s.logger.Debug("stopping service", "type", typ)
		if err := s.services[typ].Stop(); err != nil {
			s.logger.Error("error stopping service", "type", typ, "err", err)
		}
	}
	s.logger.Debug("all services stopped")
}

// Get retrieves the registered service of the same type as srvc
func (s *ServiceRegistry) Get(srvc interface{}) Service {
	if reflect.TypeOf(srvc).Kind() != reflect.Ptr {
		s.logger.Warn("expected a pointer", "got", reflect.TypeOf(srvc))
		return nil
	}
	e := reflect.ValueOf(srvc)

	if srv, ok := s.services[e.Type()]; ok {
		return srv
	}
	s.logger.Warn("unknown service type", "type", e.Type())
	return nil
}
