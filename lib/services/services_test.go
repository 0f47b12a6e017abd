// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package services

import (
	"testing"

	log "github.com/ChainSafe/log15"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	started bool
	stopped bool
}

func (m *mockService) Start() error {
	m.started = true
	return nil
}

func (m *mockService) Stop() error {
	m.stopped = true
	return nil
}

func TestServiceRegistry_StartStopAll(t *testing.T) {
	r := NewServiceRegistry(log.New("pkg", "services"))

	m := new(mockService)
	r.RegisterService(m)

	r.StartAll()
	require.True(t, m.started)

	r.StopAll()
	require.True(t, m.stopped)
}

func TestServiceRegistry_RegisterDuplicate(t *testing.T) {
	r := NewServiceRegistry(log.New("pkg", "services"))

	r.RegisterService(new(mockService))
	r.RegisterService(new(mockService))

	require.Len(t, r.serviceTypes, 1)
}

func TestServiceRegistry_Get(t *testing.T) {
	r := NewServiceRegistry(log.New("pkg", "services"))

	m := new(mockService)
	r.RegisterService(m)

	require.Equal(t, m, r.Get(&mockService{}))
	require.Nil(t, r.Get(mockService{}))
}
