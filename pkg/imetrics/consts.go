/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package imetrics

const bitSize = 64

// Metric names
const (
	PagesWritten    = "pspp_pagestore_pages_written_total"
	PagesRead       = "pspp_pagestore_pages_read_total"
	PageCacheHits   = "pspp_pagestore_cache_hits_total"
	CasesSpilled    = "pspp_casewindow_cases_spilled_total"
	SortRuns        = "pspp_sort_runs_total"
	SortMergePasses = "pspp_sort_merge_passes_total"
	SortedCases     = "pspp_sort_cases_total"
	TaintedStreams  = "pspp_streams_tainted_total"
)
