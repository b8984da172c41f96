/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/wso2/identity-contact-service/internal/contact/importer"
)

// EventType identifies an import progress event.
type EventType string

const (
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Stage is the phase an import is in.
type Stage string

const (
	StageQueued    Stage = "queued"
	StageParsing   Stage = "parsing"
	StageImporting Stage = "importing"
	StageDone      Stage = "done"
)

// JobStatus is the lifecycle state of an import job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

const watcherBufferSize = 16

// ImportEvent is published while an import runs. Processed never decreases and every job ends with
// exactly one complete or error event.
type ImportEvent struct {
	Type      EventType `json:"type"`
	JobId     string    `json:"job_id"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Stage     Stage     `json:"stage"`
	Imported  int       `json:"imported,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// IsTerminal reports whether the event ends the stream.
func (e ImportEvent) IsTerminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// JobSnapshot is the point in time state of an import job.
type JobSnapshot struct {
	JobId       string             `json:"job_id"`
	SourceFile  string             `json:"source_file,omitempty"`
	Status      JobStatus          `json:"status"`
	Stage       Stage              `json:"stage"`
	Processed   int                `json:"processed"`
	Total       int                `json:"total"`
	Imported    int                `json:"imported"`
	Error       string             `json:"error,omitempty"`
	Warnings    []importer.Warning `json:"warnings,omitempty"`
	SubmittedAt int64              `json:"submitted_at"`
	FinishedAt  int64              `json:"finished_at,omitempty"`
}

type watcher struct {
	ch  chan ImportEvent
	ctx context.Context
}

// ImportJob is one CSV import. It is safe for concurrent use.
type ImportJob struct {
	Id         string
	SourceFile string

	data   []byte
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	status      JobStatus
	latest      ImportEvent
	imported    int
	warnings    []importer.Warning
	submittedAt time.Time
	finishedAt  time.Time
	nextWatcher int
	watchers    map[int]*watcher
}

func newImportJob(parent context.Context, id, sourceFile string, data []byte) *ImportJob {

	ctx, cancel := context.WithCancel(parent)
	return &ImportJob{
		Id:          id,
		SourceFile:  sourceFile,
		data:        data,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		status:      JobQueued,
		latest:      ImportEvent{Type: EventProgress, JobId: id, Stage: StageQueued},
		submittedAt: time.Now(),
		watchers:    make(map[int]*watcher),
	}
}

// Done is closed once the job published its terminal event.
func (j *ImportJob) Done() <-chan struct{} {
	return j.done
}

// Snapshot returns the current state of the job.
func (j *ImportJob) Snapshot() JobSnapshot {

	j.mu.Lock()
	defer j.mu.Unlock()
	snapshot := JobSnapshot{
		JobId:       j.Id,
		SourceFile:  j.SourceFile,
		Status:      j.status,
		Stage:       j.latest.Stage,
		Processed:   j.latest.Processed,
		Total:       j.latest.Total,
		Imported:    j.imported,
		Error:       j.latest.Error,
		Warnings:    append([]importer.Warning(nil), j.warnings...),
		SubmittedAt: j.submittedAt.UnixMilli(),
	}
	if !j.finishedAt.IsZero() {
		snapshot.FinishedAt = j.finishedAt.UnixMilli()
	}
	return snapshot
}

// Watch streams the job's events, starting with the latest one. Progress events are dropped for a
// watcher that does not keep up; the terminal event is always delivered unless ctx ends first. The
// channel is closed after the terminal event or when ctx is done.
func (j *ImportJob) Watch(ctx context.Context) <-chan ImportEvent {

	ch := make(chan ImportEvent, watcherBufferSize)

	j.mu.Lock()
	latest := j.latest
	if latest.IsTerminal() {
		j.mu.Unlock()
		ch <- latest
		close(ch)
		return ch
	}
	id := j.nextWatcher
	j.nextWatcher++
	j.watchers[id] = &watcher{ch: ch, ctx: ctx}
	ch <- latest
	j.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			j.mu.Lock()
			w, ok := j.watchers[id]
			delete(j.watchers, id)
			j.mu.Unlock()
			if ok {
				close(w.ch)
			}
		case <-j.done:
		}
	}()
	return ch
}

func (j *ImportJob) setRunning() bool {

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != JobQueued {
		return false
	}
	j.status = JobRunning
	return true
}

func (j *ImportJob) addWarnings(warnings []importer.Warning) {

	j.mu.Lock()
	defer j.mu.Unlock()
	j.warnings = append(j.warnings, warnings...)
}

// progress publishes a progress event. Events that would move processed backwards are ignored.
func (j *ImportJob) progress(stage Stage, processed, total int) {

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.latest.IsTerminal() || processed < j.latest.Processed {
		return
	}
	event := ImportEvent{
		Type:      EventProgress,
		JobId:     j.Id,
		Processed: processed,
		Total:     total,
		Stage:     stage,
	}
	j.latest = event
	for _, w := range j.watchers {
		select {
		case w.ch <- event:
		default:
		}
	}
}

func (j *ImportJob) finishedTime() time.Time {

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.finishedAt
}

// finish publishes the terminal event. Only the first call has an effect.
func (j *ImportJob) finish(status JobStatus, imported int, cause error) {

	j.mu.Lock()
	if j.latest.IsTerminal() {
		j.mu.Unlock()
		return
	}
	event := ImportEvent{
		Type:      EventComplete,
		JobId:     j.Id,
		Processed: j.latest.Processed,
		Total:     j.latest.Total,
		Stage:     StageDone,
		Imported:  imported,
	}
	if status == JobCompleted {
		event.Processed = imported
		event.Total = imported
	}
	if cause != nil {
		event.Type = EventError
		event.Error = cause.Error()
	}
	j.status = status
	j.imported = imported
	j.latest = event
	j.finishedAt = time.Now()
	watchers := j.watchers
	j.watchers = make(map[int]*watcher)
	j.mu.Unlock()

	for _, w := range watchers {
		select {
		case w.ch <- event:
		case <-w.ctx.Done():
		}
		close(w.ch)
	}
	j.cancel()
	close(j.done)
}
