package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/opark001/vertex-gemini-web/internal/logging"
)

// InstructionSource supplies the fixed system instruction.
type InstructionSource interface {
	Instruction(ctx context.Context) (string, error)
}

// StaticInstruction is an in-memory instruction.
type StaticInstruction string

func (s StaticInstruction) Instruction(context.Context) (string, error) {
	return string(s), nil
}

// FileInstruction reads the instruction from a UTF-8 text file and caches
// it. When Watch is running, edits to the file drop the cache so the next
// request reads the new text.
type FileInstruction struct {
	path string

	mu     sync.RWMutex
	cached string
	loaded bool
	gen    uint64

	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewFileInstruction(path string) *FileInstruction {
	return &FileInstruction{path: path}
}

// Path returns the file being served.
func (f *FileInstruction) Path() string { return f.path }

func (f *FileInstruction) Instruction(_ context.Context) (string, error) {
	f.mu.RLock()
	if f.loaded {
		s := f.cached
		f.mu.RUnlock()
		return s, nil
	}
	gen := f.gen
	f.mu.RUnlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read system instruction %s: %w", f.path, err)
	}
	f.mu.Lock()
	// a change event during the read makes this copy stale; serve it but do not cache it
	if f.gen == gen {
		f.cached = string(b)
		f.loaded = true
	}
	f.mu.Unlock()
	return string(b), nil
}

// Invalidate drops the cached text.
func (f *FileInstruction) Invalidate() {
	f.mu.Lock()
	f.cached = ""
	f.loaded = false
	f.gen++
	f.mu.Unlock()
}

// Watch starts watching the file's directory. Editors often replace files
// instead of writing in place, so the directory is watched and events are
// filtered by name.
func (f *FileInstruction) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	f.watcher = w
	f.done = make(chan struct{})
	go f.run(filepath.Clean(f.path))
	return nil
}

func (f *FileInstruction) run(target string) {
	defer close(f.done)
	for {
		select {
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				f.Invalidate()
				logging.Info("system instruction changed; cache dropped", logging.Fields{"path": f.path, "op": ev.Op.String()})
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("system instruction watcher error", err, logging.Fields{"path": f.path})
		}
	}
}

// Close stops the watcher, if any, and waits for its goroutine.
func (f *FileInstruction) Close() error {
	if f.watcher == nil {
		return nil
	}
	err := f.watcher.Close()
	<-f.done
	f.watcher = nil
	return err
}
