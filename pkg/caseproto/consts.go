/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package caseproto

// DefaultCacheSize is the number of interned protos kept per cache
const DefaultCacheSize = 256

// numericByteWidth is the serialized size of a numeric cell
const numericByteWidth = 8
