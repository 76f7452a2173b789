package archive

import (
	"errors"
	"fmt"
)

// Sentinel errors for package archive.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Extraction safety
	ErrPathTraversal    = errors.New("archive entry escapes destination")
	ErrUnsupportedEntry = errors.New("unsupported archive entry type")
	ErrEntryTooLarge    = errors.New("archive entry exceeds size limit")
	ErrArchiveTooLarge  = errors.New("archive exceeds total extraction limit")

	// Source and destination errors
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrExpectedDirectory = errors.New("expected directory but got file")
	ErrNoArchiveName     = errors.New("archive name required to nest output")
	ErrDestinationIsSrc  = errors.New("destination archive would overwrite its source")
)

// PathTraversalError is returned when an entry name would place its output
// outside the extraction root. It is never downgraded or skipped.
type PathTraversalError struct {
	Entry string
	Root  string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("%v: %q is outside %s", ErrPathTraversal, e.Entry, e.Root)
}

func (e *PathTraversalError) Is(target error) bool {
	return target == ErrPathTraversal
}

// EntryError records the entry and operation that failed during extraction.
type EntryError struct {
	Entry string
	Op    string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entry, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
