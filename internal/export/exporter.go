package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"optics-shop/internal/blob"
	"optics-shop/internal/core"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when looking up an unknown task id.
var ErrTaskNotFound = errors.New("export task not found")

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskDone      TaskStatus = "done"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// Terminal reports whether the task has stopped.
func (s TaskStatus) Terminal() bool {
	return s == TaskDone || s == TaskFailed || s == TaskCancelled
}

// Task is one asynchronous render → rasterize → store job.
type Task struct {
	ID          string
	OrderID     int
	OrderNumber string
	Format      Format
	Key         string
	CreatedAt   time.Time

	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	status   TaskStatus
	err      error
	info     blob.Info
	finished time.Time
}

// TaskView is the JSON-friendly state of a task.
type TaskView struct {
	ID          string     `json:"id"`
	OrderID     int        `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	Format      Format     `json:"format"`
	Status      TaskStatus `json:"status"`
	Key         string     `json:"key"`
	Size        int64      `json:"size_bytes,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Cancel stops the task if it is still running. It is safe to call at any time.
func (t *Task) Cancel() { t.cancel() }

// Done is closed when the task reaches a terminal status.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx ends, and returns the stored
// blob or the failure.
func (t *Task) Wait(ctx context.Context) (blob.Info, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return blob.Info{}, ctx.Err()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.info, t.err
}

func (t *Task) View() TaskView {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := TaskView{
		ID:          t.ID,
		OrderID:     t.OrderID,
		OrderNumber: t.OrderNumber,
		Format:      t.Format,
		Status:      t.status,
		Key:         t.Key,
		Size:        t.info.Size,
		CreatedAt:   t.CreatedAt,
	}
	if t.err != nil {
		v.Error = t.err.Error()
	}
	if !t.finished.IsZero() {
		f := t.finished
		v.FinishedAt = &f
	}
	return v
}

func (t *Task) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

func (t *Task) finish(s TaskStatus, info blob.Info, err error) {
	t.mu.Lock()
	t.status = s
	t.info = info
	t.err = err
	t.finished = time.Now()
	t.mu.Unlock()
	close(t.done)
}

// Options configures an Exporter.
type Options struct {
	// Timeout bounds a whole task. Zero means 30 seconds.
	Timeout time.Duration
	// Rasterizers adds renderers for formats other than html.
	Rasterizers map[Format]Rasterizer
	// OnFinish is called once per task with its terminal status.
	OnFinish func(format Format, status TaskStatus)
	// Retain is how long finished tasks stay queryable. Zero means one hour.
	Retain time.Duration
}

// Exporter runs export tasks and keeps them addressable by id.
type Exporter struct {
	docs        core.DocumentService
	blobs       blob.Store
	rasterizers map[Format]Rasterizer
	timeout     time.Duration
	retain      time.Duration
	onFinish    func(Format, TaskStatus)

	mu    sync.Mutex
	tasks map[string]*Task
	wg    sync.WaitGroup
}

func NewExporter(docs core.DocumentService, blobs blob.Store, opts Options) *Exporter {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retain <= 0 {
		opts.Retain = time.Hour
	}
	rasterizers := map[Format]Rasterizer{FormatHTML: HTMLRasterizer{}}
	for f, r := range opts.Rasterizers {
		rasterizers[f] = r
	}
	return &Exporter{
		docs:        docs,
		blobs:       blobs,
		rasterizers: rasterizers,
		timeout:     opts.Timeout,
		retain:      opts.Retain,
		onFinish:    opts.OnFinish,
		tasks:       make(map[string]*Task),
	}
}

// Supports reports whether a rasterizer is registered for f.
func (e *Exporter) Supports(f Format) bool {
	_, ok := e.rasterizers[f]
	return ok
}

// Start schedules an export of o and returns immediately. The task outlives
// ctx's cancellation but keeps its values.
func (e *Exporter) Start(ctx context.Context, o core.Order, format Format) (*Task, error) {
	r, ok := e.rasterizers[format]
	if !ok {
		return nil, fmt.Errorf("format %q: %w", format, ErrUnsupportedFormat)
	}

	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	t := &Task{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Format:      format,
		Key:         DocumentKey(o, format),
		CreatedAt:   time.Now(),
		cancel:      cancel,
		done:        make(chan struct{}),
		status:      TaskPending,
	}

	e.mu.Lock()
	e.pruneLocked()
	e.tasks[t.ID] = t
	e.mu.Unlock()

	doc := e.docs.BuildDocument(o)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		e.run(taskCtx, t, doc, r)
	}()
	return t, nil
}

func (e *Exporter) run(ctx context.Context, t *Task, doc core.OrderDocument, r Rasterizer) {
	t.setStatus(TaskRunning)
	info, err := e.execute(ctx, t, doc, r)

	status := TaskDone
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		status = TaskCancelled
	default:
		status = TaskFailed
	}
	if err != nil {
		log.Printf("export %s order %s (%s): %s: %v", t.ID, t.OrderNumber, t.Format, status, err)
	}
	t.finish(status, info, err)
	if e.onFinish != nil {
		e.onFinish(t.Format, status)
	}
}

func (e *Exporter) execute(ctx context.Context, t *Task, doc core.OrderDocument, r Rasterizer) (blob.Info, error) {
	html, err := RenderHTML(doc)
	if err != nil {
		return blob.Info{}, err
	}
	if err := ctx.Err(); err != nil {
		return blob.Info{}, err
	}
	out, err := r.Rasterize(ctx, html)
	if err != nil {
		return blob.Info{}, fmt.Errorf("rasterize: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return blob.Info{}, err
	}
	info, err := e.blobs.Put(ctx, t.Key, bytes.NewReader(out), blob.PutOptions{
		ContentType: t.Format.ContentType(),
		Metadata:    map[string]string{"order-number": t.OrderNumber},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store %s: %w", t.Key, err)
	}
	return info, nil
}

// Task returns the task with id.
func (e *Exporter) Task(id string) (*Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrTaskNotFound)
	}
	return t, nil
}

// Shutdown cancels running tasks and waits for them to stop or ctx to end.
func (e *Exporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	for _, t := range e.tasks {
		t.Cancel()
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pruneLocked drops finished tasks older than the retention window.
func (e *Exporter) pruneLocked() {
	cutoff := time.Now().Add(-e.retain)
	for id, t := range e.tasks {
		t.mu.Lock()
		expired := t.status.Terminal() && t.finished.Before(cutoff)
		t.mu.Unlock()
		if expired {
			delete(e.tasks, id)
		}
	}
}

var keyReplacer = strings.NewReplacer("/", "_", `\`, "_", "..", "_")

// DocumentKey is the blob key of an order's exported document:
// orders/<orderNumber>_<clientName>.<ext>.
func DocumentKey(o core.Order, f Format) string {
	name := keyReplacer.Replace(strings.TrimSpace(o.ClientName))
	number := keyReplacer.Replace(o.OrderNumber)
	return fmt.Sprintf("orders/%s_%s.%s", number, name, f.Extension())
}
