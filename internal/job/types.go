package job

// State tracks a job through its lifecycle. Completed and Failed are
// terminal; no transition leaves them.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Snapshot is the progress view reported to polling clients.
type Snapshot struct {
	Pct   float64
	Speed string
	ETA   string
	Text  string
}

// View is an atomic copy of a job's externally visible fields.
type View struct {
	ID       string
	State    State
	Status   Snapshot
	Filename string
	Done     bool
	Error    string
}

// record is the registry-owned mutable job state, guarded by Registry.mu.
// Exactly one runner goroutine mutates a record after submission.
type record struct {
	id       string
	state    State
	status   Snapshot
	filename string
	done     bool
	err      string
}

func (rec *record) view() View {
	return View{
		ID:       rec.id,
		State:    rec.state,
		Status:   rec.status,
		Filename: rec.filename,
		Done:     rec.done,
		Error:    rec.err,
	}
}

func (rec *record) terminal() bool {
	return rec.state == StateCompleted || rec.state == StateFailed
}
