package media

import (
	"time"
)

// Op describes what happened to a library entry.
type Op string

const (
	OpCreate Op = "added"
	OpWrite  Op = "updated"
	OpRemove Op = "removed"
	OpRename Op = "renamed"
	// OpRescan is emitted by the polling fallback when the library contents
	// changed but the individual file is unknown.
	OpRescan Op = "changed"
)

// Change is a single library change event.
type Change struct {
	Path string
	Op   Op
	At   time.Time
}
