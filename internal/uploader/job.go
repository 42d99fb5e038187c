package uploader

import "context"

// Status is the lifecycle state of a job. Pending, success and error are
// stable; uploading is transient and always resolves to a terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// Result identifies what a successful job produced.
type Result struct {
	MediaID    string
	StorageKey string
}

// job is the queue-internal record. All fields except id and src are guarded
// by the manager's mutex. The cancel handle exists only while uploading and
// is released on terminal transition.
type job struct {
	id       string
	src      Source
	status   Status
	progress int
	errMsg   string
	result   *Result
	cancel   context.CancelFunc
}

// JobView is an immutable snapshot of one job, safe to hand to UI consumers.
type JobView struct {
	ID       string
	Name     string
	Size     int64
	Status   Status
	Progress int
	Error    string
	Result   *Result
}

func (j *job) view() JobView {
	v := JobView{
		ID:       j.id,
		Name:     j.src.Name(),
		Size:     j.src.Size(),
		Status:   j.status,
		Progress: j.progress,
		Error:    j.errMsg,
	}
	if j.result != nil {
		r := *j.result
		v.Result = &r
	}
	return v
}
