// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// fileContents is the on-disk layout of a File store.
type fileContents struct {
	Credentials `yaml:",inline"`
	ExpiresAt   time.Time `yaml:"expires_at"`
}

// File persists credentials in a YAML file readable only by the owner.
// Used by the CLI.
type File struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFile returns a store backed by the file at path.
func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

// DefaultFilePath returns $XDG_CONFIG_HOME/techblog/credentials.yaml.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "techblog", "credentials.yaml")
}

func (f *File) read() Credentials {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Credentials{}
	}
	var fc fileContents
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Credentials{}
	}
	if !fc.ExpiresAt.IsZero() && f.now().After(fc.ExpiresAt) {
		return Credentials{}
	}
	return fc.Credentials
}

func (f *File) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read().AccessToken
}

func (f *File) RefreshToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read().RefreshToken
}

func (f *File) SetCredentials(access, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(fileContents{
		Credentials: Credentials{AccessToken: access, RefreshToken: refresh},
		ExpiresAt:   f.now().Add(TTL).UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (f *File) ClearCredentials() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
