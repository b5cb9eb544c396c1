package media

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// MaxBackoff is the maximum interval between rescans of a failing library.
const MaxBackoff = 5 * time.Minute

// scanState tracks the polled state of a library.
type scanState struct {
	Signature    uint64
	Scanned      bool
	LastScanTime time.Time
	ConsecFails  int
	BackoffUntil time.Time
}

// ShouldScan returns true if the library is ready to be rescanned.
func (s *scanState) ShouldScan(now time.Time) bool {
	return now.After(s.BackoffUntil) || now.Equal(s.BackoffUntil)
}

// RecordSuccess records a successful scan.
// Returns true if the contents changed since the previous successful scan.
func (s *scanState) RecordSuccess(sig uint64, now time.Time) bool {
	changed := s.Scanned && s.Signature != sig
	s.Signature = sig
	s.Scanned = true
	s.LastScanTime = now
	s.ConsecFails = 0
	s.BackoffUntil = time.Time{}
	return changed
}

// RecordFailure records a failed scan and calculates backoff.
func (s *scanState) RecordFailure(baseInterval time.Duration, now time.Time) {
	s.ConsecFails++
	s.LastScanTime = now

	// base * 2^(fails-1), capped at MaxBackoff
	backoff := baseInterval
	for i := 1; i < s.ConsecFails; i++ {
		backoff *= 2
		if backoff > MaxBackoff {
			backoff = MaxBackoff
			break
		}
	}
	s.BackoffUntil = now.Add(backoff)
}

// signature digests the identity, size and mtime of every image.
func signature(images []*Image) uint64 {
	d := xxhash.New()
	for _, img := range images {
		d.WriteString(img.ID)
		d.WriteString(strconv.FormatInt(img.Size, 10))
		d.WriteString(strconv.FormatInt(img.ModTime.UnixNano(), 10))
	}
	return d.Sum64()
}
