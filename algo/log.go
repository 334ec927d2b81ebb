// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package algo

import (
	log "github.com/sirupsen/logrus"
)

// largeSize is the number of BDD nodes above which progress messages are
// logged at Debug level instead of Trace.
const largeSize = 100000

// DebugWithLimit logs a progress message whose level depends on the size of
// the data involved. With the Debug level, only operations on large BDDs are
// reported; use the Trace level to see everything.
func DebugWithLimit(entry *log.Entry, size int, format string, args ...interface{}) {
	if size > largeSize {
		entry.Debugf(format, args...)
		return
	}
	entry.Tracef(format, args...)
}
