package platform

import (
	"errors"
	"strings"
	"sync"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected fault error")

// Fault defines specific failure behavior.
type Fault struct {
	FailOnOpen  bool
	FailOnRead  bool
	FailOnWrite bool
	FailOnSync  bool
	FailOnClose bool
	Err         error // returned by the failing call; ErrInjected when nil
}

// CallStats counts the physical calls that reached a Faulty platform.
type CallStats struct {
	Opens  int
	Reads  int
	Writes int
	Syncs  int
	Closes int

	BytesRead    int64
	BytesWritten int64
}

// Faulty is a Platform wrapper that can inject errors and counts calls.
//
// Rules are matched against the path on every call, so a fault can be armed or
// cleared while a handle is open.
type Faulty struct {
	Platform Platform

	mu    sync.Mutex
	rules map[string]Fault // Path substring -> Fault
	stats CallStats
}

// NewFaulty creates a new Faulty wrapping the provided platform (or Default if nil).
func NewFaulty(p Platform) *Faulty {
	if p == nil {
		p = Default
	}
	return &Faulty{
		Platform: p,
		rules:    make(map[string]Fault),
	}
}

// AddRule adds a fault injection rule for paths containing pattern.
func (f *Faulty) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// ClearRules removes all fault rules.
func (f *Faulty) ClearRules() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = make(map[string]Fault)
}

// Stats returns a snapshot of the call counters.
func (f *Faulty) Stats() CallStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// ResetStats zeroes the call counters.
func (f *Faulty) ResetStats() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = CallStats{}
}

func (f *Faulty) faultFor(path string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	var fault Fault
	for pattern, rule := range f.rules {
		if strings.Contains(path, pattern) {
			fault = rule
		}
	}
	if fault.Err == nil {
		fault.Err = ErrInjected
	}
	return fault
}

func (f *Faulty) count(fn func(s *CallStats)) {
	f.mu.Lock()
	fn(&f.stats)
	f.mu.Unlock()
}

// Open implements Platform.Open.
func (f *Faulty) Open(path string, mode OpenMode, write bool) (Handle, error) {
	f.count(func(s *CallStats) { s.Opens++ })
	if fault := f.faultFor(path); fault.FailOnOpen {
		return nil, fault.Err
	}
	h, err := f.Platform.Open(path, mode, write)
	if err != nil {
		return nil, err
	}
	return &faultyHandle{Handle: h, fs: f, path: path}, nil
}

// Stat implements Platform.Stat.
func (f *Faulty) Stat(path string) (FileInfo, error) {
	return f.Platform.Stat(path)
}

type faultyHandle struct {
	Handle
	fs   *Faulty
	path string
}

func (fh *faultyHandle) ReadAt(p []byte, off int64) (int, error) {
	fh.fs.count(func(s *CallStats) { s.Reads++ })
	if fault := fh.fs.faultFor(fh.path); fault.FailOnRead {
		return 0, fault.Err
	}
	n, err := fh.Handle.ReadAt(p, off)
	fh.fs.count(func(s *CallStats) { s.BytesRead += int64(n) })
	return n, err
}

func (fh *faultyHandle) WriteAt(p []byte, off int64) (int, error) {
	fh.fs.count(func(s *CallStats) { s.Writes++ })
	if fault := fh.fs.faultFor(fh.path); fault.FailOnWrite {
		return 0, fault.Err
	}
	n, err := fh.Handle.WriteAt(p, off)
	fh.fs.count(func(s *CallStats) { s.BytesWritten += int64(n) })
	return n, err
}

func (fh *faultyHandle) Sync() error {
	fh.fs.count(func(s *CallStats) { s.Syncs++ })
	if fault := fh.fs.faultFor(fh.path); fault.FailOnSync {
		return fault.Err
	}
	return fh.Handle.Sync()
}

func (fh *faultyHandle) Close() error {
	fh.fs.count(func(s *CallStats) { s.Closes++ })
	if fault := fh.fs.faultFor(fh.path); fault.FailOnClose {
		return fault.Err
	}
	return fh.Handle.Close()
}
