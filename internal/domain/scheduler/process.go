package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ProcessManager owns the long-running goroutines of the bot and stops them together.
type ProcessManager struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	processes map[string]*processInfo
}

type processInfo struct {
	cancel      context.CancelFunc
	description string
	started     time.Time
}

// Process describes a running background process.
type Process struct {
	Name        string
	Description string
	Started     time.Time
}

func NewProcessManager(parent context.Context) *ProcessManager {
	ctx, cancel := context.WithCancel(parent)
	return &ProcessManager{
		ctx:       ctx,
		cancel:    cancel,
		processes: make(map[string]*processInfo),
	}
}

// Start runs fn in its own goroutine. A process already registered under name is stopped first.
func (pm *ProcessManager) Start(name, description string, fn func(ctx context.Context)) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if _, exists := pm.processes[name]; exists {
		slog.Warn("Process already running, replacing it",
			slog.String("type", "sys"),
			slog.String("process", name))
		pm.stopLocked(name)
	}

	ctx, cancel := context.WithCancel(pm.ctx)
	info := &processInfo{cancel: cancel, description: description, started: time.Now()}
	pm.processes[name] = info

	pm.wg.Add(1)
	go func() {
		defer pm.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background process panic",
					slog.String("type", "error"),
					slog.String("process", name),
					slog.Any("panic", r))
			}
			pm.mu.Lock()
			if pm.processes[name] == info {
				delete(pm.processes, name)
			}
			pm.mu.Unlock()
		}()

		slog.Info("Starting background process",
			slog.String("type", "sys"),
			slog.String("process", name),
			slog.String("description", description))

		fn(ctx)

		slog.Info("Background process ended",
			slog.String("type", "sys"),
			slog.String("process", name))
	}()
}

func (pm *ProcessManager) Stop(name string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.stopLocked(name)
}

func (pm *ProcessManager) stopLocked(name string) {
	if p, ok := pm.processes[name]; ok {
		p.cancel()
		delete(pm.processes, name)
	}
}

// Shutdown cancels every process and waits up to timeout for them to return.
func (pm *ProcessManager) Shutdown(timeout time.Duration) error {
	slog.Info("Shutting down background processes",
		slog.String("type", "sys"),
		slog.Int("process_count", pm.Count()))

	pm.cancel()

	done := make(chan struct{})
	go func() {
		pm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background processes to stop",
			slog.String("type", "sys"),
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

func (pm *ProcessManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.processes)
}

// List returns the running processes sorted by name.
func (pm *ProcessManager) List() []Process {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	list := make([]Process, 0, len(pm.processes))
	for name, p := range pm.processes {
		list = append(list, Process{Name: name, Description: p.description, Started: p.started})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
