// Package common provides shared utilities for GodTools.
// This file wires the standard logger to an optional rotating log file.
package common

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetLogFile mirrors all log output into a rotating log file in addition to
// stderr. Rotation keeps conversions of large image batches from growing the
// log without bound.
func SetLogFile(path string) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
