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
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wso2/identity-contact-service/internal/contact/importer"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/config"
	cdserrors "github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

const (
	defaultQueueSize = 16
	defaultWorkers   = 2

	// Finished jobs stay queryable for this long.
	jobRetention = time.Hour
)

var errImportCancelled = errors.New("import cancelled")

// ContactImporter stores parsed contacts. The contact service satisfies it.
type ContactImporter interface {
	ImportContacts(ctx context.Context, contacts []model.Contact, progress func(processed int)) (int, error)
}

// ImportManager runs CSV imports on a fixed pool of workers fed by a bounded queue.
type ImportManager struct {
	importer ContactImporter
	queue    chan *ImportJob
	workers  int

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu     sync.RWMutex
	jobs   map[string]*ImportJob
	closed bool
}

var (
	importManager *ImportManager
	managerMu     sync.RWMutex
)

// NewImportManager creates a manager. Call Start before submitting jobs.
func NewImportManager(importer ContactImporter, conf config.ImportConfig) *ImportManager {

	queueSize := conf.QueueSize
	if queueSize < 1 {
		queueSize = defaultQueueSize
	}
	workers := conf.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	return &ImportManager{
		importer: importer,
		queue:    make(chan *ImportJob, queueSize),
		workers:  workers,
		jobs:     make(map[string]*ImportJob),
	}
}

// StartImportWorker starts the process wide import manager.
func StartImportWorker(ctx context.Context, importer ContactImporter, conf config.ImportConfig) *ImportManager {

	manager := NewImportManager(importer, conf)
	manager.Start(ctx)

	managerMu.Lock()
	importManager = manager
	managerMu.Unlock()
	return manager
}

// GetImportManager returns the manager started by StartImportWorker, or nil.
func GetImportManager() *ImportManager {

	managerMu.RLock()
	defer managerMu.RUnlock()
	return importManager
}

// Start launches the workers. Jobs are cancelled when ctx ends.
func (m *ImportManager) Start(ctx context.Context) {

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.group = &errgroup.Group{}
	for i := 0; i < m.workers; i++ {
		m.group.Go(func() error {
			for job := range m.queue {
				m.run(job)
			}
			return nil
		})
	}
	log.GetLogger().Info("Import workers started", log.Int("workers", m.workers), log.Int("queueSize", cap(m.queue)))
}

// Shutdown stops accepting jobs, cancels queued and running ones and waits for the workers to exit.
func (m *ImportManager) Shutdown() error {

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.cancel()
	err := m.group.Wait()
	log.GetLogger().Info("Import workers stopped")
	return err
}

// Submit queues a CSV import. It fails when the queue is full or the manager was shut down.
func (m *ImportManager) Submit(data []byte, sourceFile string) (*ImportJob, error) {

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.ctx == nil {
		return nil, cdserrors.NewClientError(cdserrors.IMPORT_QUEUE_FULL, http.StatusServiceUnavailable)
	}

	job := newImportJob(m.ctx, uuid.New().String(), sourceFile, data)
	select {
	case m.queue <- job:
	default:
		log.GetLogger().Warn("Import queue is full", log.String("sourceFile", sourceFile))
		return nil, cdserrors.NewClientError(cdserrors.IMPORT_QUEUE_FULL, http.StatusTooManyRequests)
	}
	m.pruneFinished(time.Now().Add(-jobRetention))
	m.jobs[job.Id] = job
	log.GetLogger().Info("Import job queued", log.String("jobId", job.Id), log.String("sourceFile", sourceFile),
		log.Int("bytes", len(data)))
	return job, nil
}

// pruneFinished forgets jobs that finished before cutoff. Callers hold m.mu.
func (m *ImportManager) pruneFinished(cutoff time.Time) {

	for id, job := range m.jobs {
		if finishedAt := job.finishedTime(); !finishedAt.IsZero() && finishedAt.Before(cutoff) {
			delete(m.jobs, id)
		}
	}
}

// Get returns a job by id.
func (m *ImportManager) Get(jobId string) (*ImportJob, error) {

	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobId]
	if !ok {
		return nil, cdserrors.NewNotFoundError(cdserrors.IMPORT_JOB_NOT_FOUND,
			fmt.Sprintf("No import job with id %s.", jobId))
	}
	return job, nil
}

// Cancel abandons a job. Contacts already committed by a running job stay in the store.
func (m *ImportManager) Cancel(jobId string) (*ImportJob, error) {

	job, err := m.Get(jobId)
	if err != nil {
		return nil, err
	}
	job.cancel()
	if job.setRunning() {
		// Never picked up by a worker.
		job.finish(JobCancelled, 0, errImportCancelled)
	}
	log.GetLogger().Info("Import job cancelled", log.String("jobId", jobId))
	return job, nil
}

func (m *ImportManager) run(job *ImportJob) {

	if !job.setRunning() {
		return
	}
	logger := log.GetLogger().With(log.String("jobId", job.Id))
	if job.ctx.Err() != nil {
		job.finish(JobCancelled, 0, errImportCancelled)
		return
	}

	job.progress(StageParsing, 0, 0)
	result, err := importer.Parse(bytes.NewReader(job.data), job.SourceFile)
	job.data = nil
	if err != nil {
		logger.Debug("Import job failed to parse", log.Error(err))
		job.finish(JobFailed, 0, err)
		return
	}
	job.addWarnings(result.Warnings)

	total := len(result.Contacts)
	job.progress(StageImporting, 0, total)
	imported, err := m.importer.ImportContacts(job.ctx, result.Contacts, func(processed int) {
		job.progress(StageImporting, processed, total)
	})
	switch {
	case err == nil:
		logger.Info("Import job completed", log.Int("imported", imported), log.Int("warnings", len(result.Warnings)))
		job.finish(JobCompleted, imported, nil)
	case errors.Is(err, context.Canceled) || job.ctx.Err() != nil:
		logger.Info("Import job stopped after cancellation", log.Int("imported", imported))
		job.finish(JobCancelled, imported, errImportCancelled)
	default:
		logger.Error("Import job failed", log.Int("imported", imported), log.Error(err))
		job.finish(JobFailed, imported, err)
	}
}
