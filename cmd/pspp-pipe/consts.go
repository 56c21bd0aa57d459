/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

// stdio stands for standard input or output in file flags
const stdio = "-"

const (
	dirAscending  = "A"
	dirDescending = "D"
)

const (
	splitLayered  = "layered"
	splitSeparate = "separate"
)

const (
	tailsOne = 1
	tailsTwo = 2
)

const pairSeparator = ":"
