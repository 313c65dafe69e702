// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import "sync"

// Memory is an in-process credential store.
type Memory struct {
	mu    sync.RWMutex
	creds Credentials
}

// NewMemory returns a store pre-populated with the given pair.
func NewMemory(access, refresh string) *Memory {
	return &Memory{creds: Credentials{AccessToken: access, RefreshToken: refresh}}
}

func (m *Memory) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds.AccessToken
}

func (m *Memory) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds.RefreshToken
}

func (m *Memory) SetCredentials(access, refresh string) error {
	m.mu.Lock()
	m.creds = Credentials{AccessToken: access, RefreshToken: refresh}
	m.mu.Unlock()
	return nil
}

func (m *Memory) ClearCredentials() error {
	m.mu.Lock()
	m.creds = Credentials{}
	m.mu.Unlock()
	return nil
}
