/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package settings

import (
	"os"
	"sync"
)

var (
	defaultMu       sync.Mutex
	defaultSettings *Settings
)

// New returns the defaults changed by opts
func New(opts ...Option) *Settings {
	s := &Settings{
		TmpDir:         tmpDir(),
		MinBuffers:     DefaultMinBuffers,
		MaxBuffers:     DefaultMaxBuffers,
		Workspace:      DefaultWorkspace,
		PageSize:       DefaultPageSize,
		PageCacheBytes: DefaultPageCacheBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init installs the process-wide settings
func Init(opts ...Option) (*Settings, error) {
	s := New(opts...)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	defaultMu.Lock()
	defaultSettings = s
	defaultMu.Unlock()
	return s, nil
}

// Teardown removes the process-wide settings
func Teardown() {
	defaultMu.Lock()
	defaultSettings = nil
	defaultMu.Unlock()
}

// Default returns the process-wide settings, plain defaults if Init was not called
func Default() *Settings {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSettings == nil {
		return New()
	}
	return defaultSettings
}

func tmpDir() string {
	if dir := os.Getenv(EnvTmpDir); dir != "" {
		return dir
	}
	return os.TempDir()
}
