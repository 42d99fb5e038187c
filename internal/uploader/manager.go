package uploader

import (
	"context"
	"errors"
	"sync"

	"github.com/cachao/media/internal/logging"
	"github.com/google/uuid"
)

// DefaultMaxConcurrent bounds how many jobs of one dispatch upload at the
// same time. Batches run strictly sequentially; jobs within a batch overlap.
const DefaultMaxConcurrent = 3

// Manager owns the upload queue. All queue mutations happen under mu; the
// bound applies per manager instance, not per process.
type Manager struct {
	mu   sync.Mutex
	jobs []*job

	backend   Backend
	transport Transport
	logger    logging.Logger

	maxConcurrent int
	notify        func()

	// target of the last successful dispatch; manual retries reuse it.
	lastEventID string
	lastAlbumID string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithMaxConcurrent overrides the per-dispatch concurrency bound.
func WithMaxConcurrent(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxConcurrent = n
		}
	}
}

// WithNotify registers a callback invoked after every observable queue
// change. Consumers re-read Jobs() on notification.
func WithNotify(fn func()) Option {
	return func(m *Manager) { m.notify = fn }
}

// NewManager constructs an upload queue manager over the given backend and
// transport.
func NewManager(backend Backend, transport Transport, logger logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		backend:       backend,
		transport:     transport,
		logger:        logger.With("module", "uploader"),
		maxConcurrent: DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enqueue appends one pending job per source, in input order, and returns the
// assigned job ids. No network activity happens here.
func (m *Manager) Enqueue(sources ...Source) []string {
	m.mu.Lock()
	ids := make([]string, 0, len(sources))
	for _, src := range sources {
		j := &job{id: uuid.NewString(), src: src, status: StatusPending}
		m.jobs = append(m.jobs, j)
		ids = append(ids, j.id)
	}
	m.mu.Unlock()
	m.changed()
	return ids
}

// Jobs returns a snapshot of the queue in insertion order.
func (m *Manager) Jobs() []JobView {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := make([]JobView, 0, len(m.jobs))
	for _, j := range m.jobs {
		views = append(views, j.view())
	}
	return views
}

// Job returns a snapshot of a single job.
func (m *Manager) Job(id string) (JobView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j := m.find(id); j != nil {
		return j.view(), true
	}
	return JobView{}, false
}

// DispatchAll resolves the target album (creating one when only a new-album
// name was supplied), then uploads every currently pending job in sequential
// batches of the concurrency bound. It returns ErrMissingTarget without
// touching any job when no album can be resolved.
func (m *Manager) DispatchAll(ctx context.Context, target Target) error {
	albumID, err := m.resolveTarget(ctx, target)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.lastEventID = target.EventID
	m.lastAlbumID = albumID
	pending := make([]string, 0, len(m.jobs))
	for _, j := range m.jobs {
		if j.status == StatusPending {
			pending = append(pending, j.id)
		}
	}
	m.mu.Unlock()

	m.logger.Info(ctx, "dispatching uploads", "jobs", len(pending), "event_id", target.EventID, "album_id", albumID)

	for start := 0; start < len(pending); start += m.maxConcurrent {
		end := min(start+m.maxConcurrent, len(pending))

		var wg sync.WaitGroup
		for _, id := range pending[start:end] {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				m.uploadOne(ctx, id, target.EventID, albumID)
			}(id)
		}
		wg.Wait()
	}

	return nil
}

// Retry resets an errored job and immediately re-uploads it, reusing the job
// id and the target of the last dispatch. It bypasses batch scheduling:
// retries are rare and user-initiated. Only valid from the error status.
func (m *Manager) Retry(ctx context.Context, id string) error {
	m.mu.Lock()
	j := m.find(id)
	if j == nil {
		m.mu.Unlock()
		return ErrJobNotFound
	}
	if j.status != StatusError {
		m.mu.Unlock()
		return ErrInvalidState
	}
	eventID, albumID := m.lastEventID, m.lastAlbumID
	if albumID == "" {
		m.mu.Unlock()
		return ErrMissingTarget
	}
	j.status = StatusPending
	j.progress = 0
	j.errMsg = ""
	j.result = nil
	m.mu.Unlock()
	m.changed()

	m.uploadOne(ctx, id, eventID, albumID)
	return nil
}

// Cancel aborts the in-flight transfer of an uploading job. The handle is
// one-shot: a second call, or a call racing a just-finished transfer, is a
// no-op. The job reaches the error status when the upload goroutine observes
// the cancellation.
func (m *Manager) Cancel(id string) {
	m.mu.Lock()
	j := m.find(id)
	if j == nil || j.status != StatusUploading || j.cancel == nil {
		m.mu.Unlock()
		return
	}
	cancel := j.cancel
	j.cancel = nil
	m.mu.Unlock()
	cancel()
}

// Remove deletes the job from the queue, cancelling it first if it is
// uploading. Absent ids are a no-op.
func (m *Manager) Remove(id string) {
	m.Cancel(id)
	m.mu.Lock()
	for i, j := range m.jobs {
		if j.id == id {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	m.changed()
}

// ClearCompleted drops every job in a terminal status.
func (m *Manager) ClearCompleted() {
	m.mu.Lock()
	kept := m.jobs[:0]
	for _, j := range m.jobs {
		if j.status == StatusSuccess || j.status == StatusError {
			continue
		}
		kept = append(kept, j)
	}
	m.jobs = kept
	m.mu.Unlock()
	m.changed()
}

// ClearAll cancels every uploading job and empties the queue.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	var cancels []context.CancelFunc
	for _, j := range m.jobs {
		if j.status == StatusUploading && j.cancel != nil {
			cancels = append(cancels, j.cancel)
			j.cancel = nil
		}
	}
	m.jobs = nil
	m.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	m.changed()
}

// resolveTarget enforces the external precondition that an album exists
// before any job leaves pending.
func (m *Manager) resolveTarget(ctx context.Context, target Target) (string, error) {
	if target.EventID == "" {
		return "", ErrMissingTarget
	}
	if target.AlbumID != "" {
		return target.AlbumID, nil
	}
	if target.NewAlbumName == "" {
		return "", ErrMissingTarget
	}
	album, err := m.backend.CreateAlbum(ctx, target.EventID, target.NewAlbumName)
	if err != nil {
		return "", err
	}
	m.logger.Info(ctx, "album created", "album_id", album.ID, "name", album.Name)
	return album.ID, nil
}

// uploadOne runs a single upload attempt: pending → uploading, plan, stream,
// register, terminal state. All failures are converted into job state; none
// propagate to the caller.
func (m *Manager) uploadOne(ctx context.Context, id, eventID, albumID string) {
	j, jobCtx, ok := m.begin(ctx, id)
	if !ok {
		return
	}
	src := j.src

	plan, err := m.backend.RequestUploadPlan(jobCtx, PlanRequest{
		FileName: src.Name(),
		FileSize: src.Size(),
		MimeType: src.ContentType(),
		EventID:  eventID,
		AlbumID:  albumID,
	})
	if err != nil {
		m.fail(jobCtx, id, err)
		return
	}

	key, err := m.execute(jobCtx, plan, src, func(pct int) { m.setProgress(id, pct) })
	if err != nil {
		m.fail(jobCtx, id, err)
		return
	}

	media, err := m.backend.RegisterUpload(jobCtx, Registration{
		EventID:   eventID,
		AlbumID:   albumID,
		ObjectKey: key,
		Title:     src.Name(),
		Size:      src.Size(),
	})
	if err != nil {
		m.fail(jobCtx, id, &RegistrationError{Err: err})
		return
	}

	m.succeed(jobCtx, id, &Result{MediaID: media.ID, StorageKey: key})
}

// begin transitions pending → uploading and installs the job's exclusive
// cancellation handle. At most one active transfer per job follows from the
// status check happening under the lock.
func (m *Manager) begin(ctx context.Context, id string) (*job, context.Context, bool) {
	m.mu.Lock()
	j := m.find(id)
	if j == nil || j.status != StatusPending {
		m.mu.Unlock()
		return nil, nil, false
	}
	jobCtx, cancel := context.WithCancel(ctx)
	j.status = StatusUploading
	j.progress = 0
	j.errMsg = ""
	j.result = nil
	j.cancel = cancel
	m.mu.Unlock()
	m.changed()
	return j, jobCtx, true
}

func (m *Manager) setProgress(id string, pct int) {
	m.mu.Lock()
	j := m.find(id)
	if j == nil || j.status != StatusUploading {
		m.mu.Unlock()
		return
	}
	if pct > 100 {
		pct = 100
	}
	// monotonic within one attempt
	if pct <= j.progress {
		m.mu.Unlock()
		return
	}
	j.progress = pct
	m.mu.Unlock()
	m.changed()
}

func (m *Manager) succeed(ctx context.Context, id string, res *Result) {
	m.mu.Lock()
	j := m.find(id)
	if j == nil || j.status != StatusUploading {
		m.mu.Unlock()
		return
	}
	j.status = StatusSuccess
	j.progress = 100
	j.errMsg = ""
	j.result = res
	cancel := j.cancel
	j.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel() // release the per-job context; the transfer already finished
	}
	m.logger.Info(ctx, "upload registered", "job_id", id, "media_id", res.MediaID, "storage_key", res.StorageKey)
	m.changed()
}

func (m *Manager) fail(ctx context.Context, id string, err error) {
	msg := err.Error()
	if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
		msg = ErrCancelled.Error()
	}

	m.mu.Lock()
	j := m.find(id)
	if j == nil || j.status != StatusUploading {
		m.mu.Unlock()
		return
	}
	j.status = StatusError
	j.errMsg = msg
	j.result = nil
	cancel := j.cancel
	j.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.logger.Error(ctx, "upload failed", "job_id", id, "error", msg)
	m.changed()
}

// find returns the job with the given id. Caller must hold mu.
func (m *Manager) find(id string) *job {
	for _, j := range m.jobs {
		if j.id == id {
			return j
		}
	}
	return nil
}

func (m *Manager) changed() {
	if m.notify != nil {
		m.notify()
	}
}
