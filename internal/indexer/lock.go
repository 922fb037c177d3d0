package indexer

import "sync/atomic"

// ScanLock marks the single scan slot as taken. It never blocks: a failed
// TryAcquire means a scan is running and the request is dropped.
type ScanLock struct {
	busy atomic.Bool
}

// TryAcquire takes the slot if it is free
func (l *ScanLock) TryAcquire() bool {
	return l.busy.CompareAndSwap(false, true)
}

// Release frees the slot. Only the holder calls it.
func (l *ScanLock) Release() {
	l.busy.Store(false)
}

// Held reports whether a scan holds the slot
func (l *ScanLock) Held() bool {
	return l.busy.Load()
}
