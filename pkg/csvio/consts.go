/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package csvio

// DefaultSniffRows is the number of data rows used to infer column types when Options.SniffRows is zero
const DefaultSniffRows = 100

// sysmisCell is accepted besides an empty cell as a missing number
const sysmisCell = "."
