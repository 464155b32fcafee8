package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrInvalidVolumeSignature  = "no GDFX volume descriptor signature found"
	ErrFailedToReadVolume      = "failed to read volume descriptor"
	ErrFailedToReadDirectory   = "failed to read directory table"
	ErrFailedToReadEntry       = "failed to read directory entry"
	ErrNoExecutableFound       = "no executable found in this image"
	ErrFailedToReadExecutable  = "failed to read executable header"
	ErrFailedToCreatePartFile  = "failed to create part file"
	ErrFailedToWritePartFile   = "failed to write part file"
	ErrFailedToReadPartMHT     = "failed to read part master hash table"
	ErrFailedToWritePartMHT    = "failed to write part master hash table"
	ErrFailedToWriteConHeader  = "failed to write con header file"
	ErrFailedToClearDataDir    = "failed to clear data directory"
	ErrFailedToOpenSourceImage = "failed to open source image"
	ErrFailedToSeekSourceImage = "failed to seek source image"
	ErrFailedToLoadTitleTable  = "failed to load built-in title table"
	ErrFailedToQueryUnity      = "failed to query XboxUnity"
	ErrIconTooLarge            = "game icon exceeds maximum size"
	ErrTitleTooLong            = "game title exceeds field capacity"
	ErrHeaderFieldOutOfBounds  = "header field write out of bounds"
)

// Info messages
const (
	InfoExtractingMetadata = "Extracting image metadata"
	InfoDetectedLayout     = "Detected volume layout: %s"
	InfoTitleID            = "Title ID: %08X"
	InfoMediaID            = "Media ID: %08X"
	InfoGameTitle          = "Game title: %s"
	InfoWritingParts       = "Writing %d part file(s) with %d worker(s)"
	InfoPartWritten        = "Part %d of %d written"
	InfoChainingHashes     = "Calculating master hash chain"
	InfoWritingConHeader   = "Writing con header"
	InfoConversionDone     = "Conversion finished: %s"
	InfoTrimmedImage       = "Trimming data region to %d bytes"
	InfoQueryingUnity      = "Querying XboxUnity for title ID %08X"
	InfoTitleFromTable     = "Title name resolved from built-in table"
)

// Debug messages
const (
	DebugProbingLayout  = "Probing layout %s at offset 0x%X"
	DebugDirectoryEntry = "Entry: %-32s sector=%-8d size=%-10d dir=%t"
	DebugSentinelHit    = "Sentinel in directory sector, resuming at next sector"
	DebugSubPartWritten = "Subpart %d: %d block(s)"
	DebugExecutionField = "XEX header field %08X = %08X"
	DebugChainStep      = "Chained part %d into part %d"
	DebugUnityResponse  = "XboxUnity returned %d title(s)"
)

// Warning messages
const (
	WarnNoTitleName      = "No title name available; header will carry an empty title"
	WarnUnityUnavailable = "XboxUnity lookup failed: %v (try --offline)"
	WarnPartialOutput    = "Conversion failed; output under %s must be considered invalid"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}
