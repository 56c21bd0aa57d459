/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package sorter

// maxMergeOrder bounds the number of runs merged at once
const maxMergeOrder = 7

const component = "sort"
