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

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/workers"
)

const sampleCSV = "First Name,Last Name,Email\nAda,Lovelace,ada@x.com\nGrace,Hopper,grace@x.com\n"

type importerFunc func(ctx context.Context, contacts []model.Contact, progress func(int)) (int, error)

func (f importerFunc) ImportContacts(ctx context.Context, contacts []model.Contact,
	progress func(int)) (int, error) {
	return f(ctx, contacts, progress)
}

// gatedImporter waits for release before reporting progress for every contact.
func gatedImporter(release <-chan struct{}) importerFunc {
	return func(ctx context.Context, contacts []model.Contact, progress func(int)) (int, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
		for i := range contacts {
			progress(i + 1)
		}
		return len(contacts), nil
	}
}

func newManager(t *testing.T, importer workers.ContactImporter) *workers.ImportManager {

	manager := workers.NewImportManager(importer, config.ImportConfig{QueueSize: 4, Workers: 1})
	manager.Start(context.Background())
	t.Cleanup(func() { _ = manager.Shutdown() })
	return manager
}

func waitForJob(t *testing.T, job *workers.ImportJob) {

	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("import job did not finish")
	}
}

func TestSubmitImport_CompletesJob(t *testing.T) {

	release := make(chan struct{})
	close(release)
	manager := newManager(t, gatedImporter(release))
	h := NewImportHandlerWithManager(manager)

	w := httptest.NewRecorder()
	h.SubmitImport(w, httptest.NewRequest(http.MethodPost, "/imports?source_file=people.csv",
		strings.NewReader(sampleCSV)))

	require.Equal(t, http.StatusAccepted, w.Code)
	var response model.ImportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.JobId)

	job, err := manager.Get(response.JobId)
	require.NoError(t, err)
	waitForJob(t, job)

	r := httptest.NewRequest(http.MethodGet, "/imports/"+response.JobId, nil)
	r.SetPathValue(PathParamJobId, response.JobId)
	w = httptest.NewRecorder()
	h.GetImport(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var snapshot workers.JobSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, workers.JobCompleted, snapshot.Status)
	assert.Equal(t, 2, snapshot.Imported)
	assert.Equal(t, "people.csv", snapshot.SourceFile)
}

func TestSubmitImport_EmptyBody(t *testing.T) {

	h := NewImportHandlerWithManager(newManager(t, gatedImporter(nil)))

	w := httptest.NewRecorder()
	h.SubmitImport(w, httptest.NewRequest(http.MethodPost, "/imports", strings.NewReader("")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.BAD_REQUEST.Code, decodeError(t, w).Code)
}

func TestGetImport_UnknownJob(t *testing.T) {

	h := NewImportHandlerWithManager(newManager(t, gatedImporter(nil)))

	r := httptest.NewRequest(http.MethodGet, "/imports/nope", nil)
	r.SetPathValue(PathParamJobId, "nope")
	w := httptest.NewRecorder()
	h.GetImport(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.IMPORT_JOB_NOT_FOUND.Code, decodeError(t, w).Code)
}

func TestCancelImport(t *testing.T) {

	manager := newManager(t, gatedImporter(make(chan struct{})))
	h := NewImportHandlerWithManager(manager)

	job, err := manager.Submit([]byte(sampleCSV), "")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodDelete, "/imports/"+job.Id, nil)
	r.SetPathValue(PathParamJobId, job.Id)
	w := httptest.NewRecorder()
	h.CancelImport(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	waitForJob(t, job)
	assert.Equal(t, workers.JobCancelled, job.Snapshot().Status)
}

func TestWatchImport_StreamsProgressOverWebSocket(t *testing.T) {

	release := make(chan struct{})
	manager := newManager(t, gatedImporter(release))
	h := NewImportHandlerWithManager(manager)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /imports/{jobId}/progress", h.WatchImport)
	server := httptest.NewServer(mux)
	defer server.Close()

	job, err := manager.Submit([]byte(sampleCSV), "")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/imports/" + job.Id + "/progress"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	close(release)

	var events []workers.ImportEvent
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var event workers.ImportEvent
		if err := conn.ReadJSON(&event); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			break
		}
		events = append(events, event)
	}

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, workers.EventComplete, last.Type)
	assert.Equal(t, 2, last.Imported)
	for _, event := range events[:len(events)-1] {
		assert.Equal(t, workers.EventProgress, event.Type)
		assert.LessOrEqual(t, event.Processed, last.Processed)
	}
}

func TestWatchImport_UnknownJob(t *testing.T) {

	h := NewImportHandlerWithManager(newManager(t, gatedImporter(nil)))

	r := httptest.NewRequest(http.MethodGet, "/imports/nope/progress", nil)
	r.SetPathValue(PathParamJobId, "nope")
	w := httptest.NewRecorder()
	h.WatchImport(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
