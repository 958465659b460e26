package job

import (
	"strings"
	"sync"

	"github.com/Anilkumarsinghsingh/Youtube-Video-Downloader/internal/ytdlp"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Registry owns every job record for the lifetime of the process. It is
// created once at startup and handed to the HTTP layer explicitly; there
// is no package-level state.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*record
	sem  *semaphore.Weighted
}

// NewRegistry creates a registry whose runners are capped at maxConcurrent
// simultaneous yt-dlp processes. Jobs submitted beyond the cap stay
// pending until a slot frees up.
func NewRegistry(maxConcurrent int) *Registry {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Registry{
		jobs: make(map[string]*record),
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Submit registers a new job and starts its runner asynchronously,
// returning the job id immediately.
func (r *Registry) Submit(cmd ytdlp.Command) string {
	id := newID()

	r.mu.Lock()
	r.jobs[id] = &record{
		id:    id,
		state: StatePending,
		status: Snapshot{
			Speed: "--",
			ETA:   "--",
			Text:  "Starting...",
		},
	}
	r.mu.Unlock()

	go r.run(id, cmd)
	return id
}

// Get returns an atomic copy of the job's current fields. The second
// result is false for unknown ids.
func (r *Registry) Get(id string) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.jobs[id]
	if !ok {
		return View{}, false
	}
	return rec.view(), true
}

func (r *Registry) setRunning(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.jobs[id]; ok && !rec.terminal() {
		rec.state = StateRunning
	}
}

// observeLine folds one line of yt-dlp output into the job record: the
// truncated raw line always becomes the latest status text, structured
// progress and destination announcements update their fields when found.
func (r *Registry) observeLine(id, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.terminal() {
		return
	}

	rec.status.Text = ytdlp.TruncateStatus(line)

	if p, ok := ytdlp.ParseProgress(line); ok {
		rec.status.Pct = p.Pct
		rec.status.Speed = p.Rate
		if p.HasETA {
			rec.status.ETA = p.ETA
		} else {
			rec.status.ETA = "--"
		}
	}

	if name, ok := ytdlp.ParseDestination(line); ok {
		rec.filename = name
	}
}

// complete marks a job done. When no destination announcement was seen,
// fallbackFilename (resolved by the runner) fills the gap.
func (r *Registry) complete(id, fallbackFilename string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.terminal() {
		return
	}
	rec.state = StateCompleted
	rec.done = true
	if rec.filename == "" {
		rec.filename = fallbackFilename
	}
}

// fail records a terminal error. The done flag stays false; a failed job
// is never retried, retrying means submitting a new job.
func (r *Registry) fail(id, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok || rec.terminal() {
		return
	}
	rec.state = StateFailed
	rec.err = msg
}

// hasFilename reports whether a destination announcement was captured.
func (r *Registry) hasFilename(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.jobs[id]
	return ok && rec.filename != ""
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
