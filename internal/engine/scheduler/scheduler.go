// Package scheduler coordinates the parallel emission of Ninja files: a
// worker pool for graph-parallel tasks, a main-thread loop for serialized
// side effects, and the shared registries the writers record into.
package scheduler

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Scheduler maintains the worker pool and the shared emission state. One
// instance lives for the duration of a generation run.
//
// The work count is a refcount over everything that must finish before the
// run can complete. When it reaches zero an on-complete event stops the
// main loop.
type Scheduler struct {
	logger ports.Logger

	loop *msgLoop

	workCount     atomic.Int64
	poolWorkCount atomic.Int64

	// poolCv signals when poolWorkCount reaches zero.
	poolMu sync.Mutex
	poolCv *sync.Cond

	pool *errgroup.Group

	mu              sync.Mutex
	failed          bool
	suppressOutput  bool
	hasBeenShutdown bool

	genDependencies        []string
	writtenFiles           []domain.SourceFile
	writeRuntimeDeps       []*domain.Target
	generatedFiles         map[domain.OutputFile][]*domain.Target
	unknownGeneratedInputs map[domain.SourceFile][]*domain.Target
}

// New creates a scheduler whose pool runs up to runtime.NumCPU tasks in
// parallel.
func New(logger ports.Logger) *Scheduler {
	s := &Scheduler{
		logger:                 logger,
		loop:                   newMsgLoop(),
		pool:                   &errgroup.Group{},
		generatedFiles:         make(map[domain.OutputFile][]*domain.Target),
		unknownGeneratedInputs: make(map[domain.SourceFile][]*domain.Target),
	}
	s.poolCv = sync.NewCond(&s.poolMu)
	s.pool.SetLimit(runtime.NumCPU())
	return s
}

// Run executes the main loop until the work count drains or a failure
// stops it. Returns false when any error was reported.
func (s *Scheduler) Run() bool {
	s.loop.Run()
	return !s.IsFailed()
}

// IsFailed reports whether any error has been recorded.
func (s *Scheduler) IsFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Log posts a "verb message" progress line to the main thread. Output is
// suppressed in testing mode.
func (s *Scheduler) Log(verb, msg string) {
	s.loop.Post(func() { s.logOnMainThread(verb, msg) })
}

// FailWithError records the error and stops the run. Calls after the first
// are coalesced; only the first error is reported.
func (s *Scheduler) FailWithError(err error) {
	s.mu.Lock()
	if s.failed {
		s.mu.Unlock()
		return
	}
	s.failed = true
	s.mu.Unlock()

	s.loop.Post(func() { s.failWithErrorOnMainThread(err) })
}

// ScheduleWork submits a task to the worker pool. Submission may block
// briefly when every worker slot is busy; tasks themselves must not submit
// nested work while holding a slot.
func (s *Scheduler) ScheduleWork(work func()) {
	s.poolWorkCount.Add(1)
	s.pool.Go(func() error {
		work()
		if s.poolWorkCount.Add(-1) == 0 {
			s.poolMu.Lock()
			s.poolCv.Broadcast()
			s.poolMu.Unlock()
		}
		return nil
	})
}

// WaitForPoolTasks blocks until every task submitted via ScheduleWork has
// completed. All recorder mutations made by those tasks are visible when
// it returns.
func (s *Scheduler) WaitForPoolTasks() {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()
	for s.poolWorkCount.Load() != 0 {
		s.poolCv.Wait()
	}
}

// Shutdown joins the worker pool. Idempotent, and safe to defer in tests
// that never ran the loop.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.hasBeenShutdown {
		s.mu.Unlock()
		return
	}
	s.hasBeenShutdown = true
	s.mu.Unlock()

	_ = s.pool.Wait()
}

// IncrementWorkCount adds one unit of outstanding work.
func (s *Scheduler) IncrementWorkCount() {
	s.workCount.Add(1)
}

// DecrementWorkCount releases one unit; at zero the main loop is asked to
// stop.
func (s *Scheduler) DecrementWorkCount() {
	if s.workCount.Add(-1) == 0 {
		s.loop.Post(s.onComplete)
	}
}

// SuppressOutputForTesting silences Log and error printing.
func (s *Scheduler) SuppressOutputForTesting(suppress bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressOutput = suppress
}

// AddGenDependency declares that the given file was read and affected the
// build output. Paths are recorded as given; callers pass absolute paths.
func (s *Scheduler) AddGenDependency(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genDependencies = append(s.genDependencies, path)
}

// GenDependencies returns a snapshot of the recorded dependencies.
func (s *Scheduler) GenDependencies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.genDependencies))
	copy(out, s.genDependencies)
	return out
}

// AddWrittenFile tracks a write_file output, for resolving against unknown
// generated inputs after the graph completes.
func (s *Scheduler) AddWrittenFile(file domain.SourceFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writtenFiles = append(s.writtenFiles, file)
}

// AddWriteRuntimeDepsTarget records a target that names a runtime-deps
// output file. The scheduler only keeps the list; nothing here writes the
// file.
func (s *Scheduler) AddWriteRuntimeDepsTarget(t *domain.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeRuntimeDeps = append(s.writeRuntimeDeps, t)
}

// WriteRuntimeDepsTargets returns a snapshot of the registered targets.
func (s *Scheduler) WriteRuntimeDepsTargets() []*domain.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Target, len(s.writeRuntimeDeps))
	copy(out, s.writeRuntimeDeps)
	return out
}

// IsFileGeneratedByWriteRuntimeDeps reports whether the file is one of the
// scheduled runtime-deps outputs.
func (s *Scheduler) IsFileGeneratedByWriteRuntimeDeps(file domain.OutputFile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.writeRuntimeDeps {
		if t.RuntimeDepsOutputFile == file {
			return true
		}
	}
	return false
}

// AddGeneratedFile records that target declares file as a generated
// output.
func (s *Scheduler) AddGeneratedFile(t *domain.Target, file domain.OutputFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generatedFiles[file] = append(s.generatedFiles[file], t)
}

// IsFileGeneratedByTarget reports whether any target generates the file.
func (s *Scheduler) IsFileGeneratedByTarget(file domain.OutputFile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.generatedFiles[file]) > 0
}

// GeneratedFiles returns a snapshot of the generated-file registry. The
// originating targets are kept so callers can tell whether the generating
// target is actually in the build; consult only after the graph completes.
func (s *Scheduler) GeneratedFiles() map[domain.OutputFile][]*domain.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.OutputFile][]*domain.Target, len(s.generatedFiles))
	for k, v := range s.generatedFiles {
		cp := make([]*domain.Target, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// AddUnknownGeneratedInput records an input under the build directory that
// no dependency generates. Whether it is an error can only be decided
// after all targets are complete, because a write_file may produce it.
func (s *Scheduler) AddUnknownGeneratedInput(t *domain.Target, file domain.SourceFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unknownGeneratedInputs[file] = append(s.unknownGeneratedInputs[file], t)
}

// UnknownGeneratedInputs returns the recorded inputs minus those written by
// write_file during execution, keyed by file with the declaring targets.
func (s *Scheduler) UnknownGeneratedInputs() map[domain.SourceFile][]*domain.Target {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := make(map[domain.SourceFile]bool, len(s.writtenFiles))
	for _, f := range s.writtenFiles {
		written[f] = true
	}

	out := make(map[domain.SourceFile][]*domain.Target)
	for file, targets := range s.unknownGeneratedInputs {
		if written[file] {
			continue
		}
		cp := make([]*domain.Target, len(targets))
		copy(cp, targets)
		out[file] = cp
	}
	return out
}

// ClearUnknownGeneratedInputsAndWrittenFiles resets the two registries.
// For testing.
func (s *Scheduler) ClearUnknownGeneratedInputsAndWrittenFiles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unknownGeneratedInputs = make(map[domain.SourceFile][]*domain.Target)
	s.writtenFiles = nil
}

// SortedUnknownGeneratedInputs flattens UnknownGeneratedInputs into a
// deterministic list for diagnostics.
func (s *Scheduler) SortedUnknownGeneratedInputs() []domain.SourceFile {
	m := s.UnknownGeneratedInputs()
	out := make([]domain.SourceFile, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value() < out[j].Value() })
	return out
}

func (s *Scheduler) logOnMainThread(verb, msg string) {
	s.mu.Lock()
	suppressed := s.suppressOutput
	s.mu.Unlock()
	if suppressed {
		return
	}
	s.logger.Info(verb + " " + msg)
}

func (s *Scheduler) failWithErrorOnMainThread(err error) {
	s.mu.Lock()
	suppressed := s.suppressOutput
	s.mu.Unlock()
	if !suppressed {
		s.logger.Error(err)
	}
	s.loop.PostQuit()
}

func (s *Scheduler) onComplete() {
	// Only reached when the work count drains; stop the loop so Run
	// returns.
	s.loop.PostQuit()
}
