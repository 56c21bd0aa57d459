/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package settings

import "fmt"

// SortBuffers returns the number of cases of caseBytes bytes a sort may buffer
func (s *Settings) SortBuffers(caseBytes int) int {
	if caseBytes < 1 {
		caseBytes = 1
	}
	n := s.Workspace / caseBytes
	if n < s.MinBuffers {
		n = s.MinBuffers
	}
	if n > s.MaxBuffers {
		n = s.MaxBuffers
	}
	return n
}

// Validate checks that the settings are usable
func (s *Settings) Validate() error {
	switch {
	case s.TmpDir == "":
		return ErrInvalid("empty tmp dir")
	case s.MinBuffers < 2:
		return ErrInvalid(fmt.Sprintf("min buffers %d < 2", s.MinBuffers))
	case s.MaxBuffers < s.MinBuffers:
		return ErrInvalid(fmt.Sprintf("max buffers %d < min buffers %d", s.MaxBuffers, s.MinBuffers))
	case s.PageSize < MinPageSize:
		return ErrInvalid(fmt.Sprintf("page size %d < %d", s.PageSize, MinPageSize))
	case s.Workspace < 0 || s.PageCacheBytes < 0:
		return ErrInvalid("negative memory budget")
	}
	return nil
}

// WithTmpDir sets the spill directory
func WithTmpDir(dir string) Option {
	return func(s *Settings) { s.TmpDir = dir }
}

// WithBuffers sets the sort buffer bounds
func WithBuffers(lo, hi int) Option {
	return func(s *Settings) {
		s.MinBuffers = lo
		s.MaxBuffers = hi
	}
}

// WithWorkspace sets the memory budget in bytes
func WithWorkspace(bytes int) Option {
	return func(s *Settings) { s.Workspace = bytes }
}

// WithPageSize sets the spill page size
func WithPageSize(size int) Option {
	return func(s *Settings) { s.PageSize = size }
}

// WithPageCache sets the page cache size in bytes
func WithPageCache(bytes int) Option {
	return func(s *Settings) { s.PageCacheBytes = bytes }
}
