/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package settings

// Settings holds the tunables of the case pipeline. Components receive it by injection
type Settings struct {
	// TmpDir is where spill files of sorts and autopaging writers are created
	TmpDir string

	// MinBuffers and MaxBuffers bound the number of cases a sort keeps in memory
	MinBuffers int
	MaxBuffers int

	// Workspace is the memory budget in bytes of a sort or an in-memory case window
	Workspace int

	// PageSize is the page size of spill files
	PageSize int

	// PageCacheBytes is the size of the process-wide spill page cache
	PageCacheBytes int
}

// Option changes Settings
type Option func(*Settings)
