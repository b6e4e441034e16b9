package importer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kbtools/url2kb/internal/api"
)

// fakeServer fakes the conversion server's plugin endpoints and records
// every call for assertions.
type fakeServer struct {
	t *testing.T

	mu          sync.Mutex
	submitCalls int
	statusCalls int
	uploadCalls int

	// submitBody is returned verbatim by the submit endpoint.
	submitBody string

	// statuses are returned in sequence by the status endpoint; the last
	// entry repeats once exhausted.
	statuses []string

	// failUpload marks filenames whose upload should be rejected.
	failUpload map[string]bool

	// uploads records the accepted and rejected uploads in arrival order.
	uploads []uploadRecord

	srv *httptest.Server
}

type uploadRecord struct {
	filename     string
	content      string
	collection   string
	chunkSize    string
	chunkOverlap string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		t:          t,
		submitBody: `{"task_id":"task-1"}`,
	}
	fs.srv = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeServer) client() *api.Client {
	return api.New(fs.srv.URL)
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	switch r.URL.Path {
	case "/api/plug/url_2_kb/add":
		fs.submitCalls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fs.submitBody))

	case "/api/plug/url_2_kb/status":
		i := fs.statusCalls
		fs.statusCalls++
		if len(fs.statuses) == 0 {
			http.Error(w, "no statuses configured", http.StatusInternalServerError)
			return
		}
		if i >= len(fs.statuses) {
			i = len(fs.statuses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fs.statuses[i]))

	case "/api/plug/alkaid/kb/collection/add_file":
		fs.uploadCalls++
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rec := uploadRecord{
			filename:     header.Filename,
			content:      string(content),
			collection:   r.FormValue("collection_name"),
			chunkSize:    r.FormValue("chunk_size"),
			chunkOverlap: r.FormValue("chunk_overlap"),
		}
		fs.uploads = append(fs.uploads, rec)

		w.Header().Set("Content-Type", "application/json")
		if fs.failUpload[rec.filename] {
			w.Write([]byte(`{"status":"error","message":"ingest rejected"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))

	case "/api/plug/alkaid/kb/collections":
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"collections":["articles","notes"]}`))

	default:
		http.NotFound(w, r)
	}
}

func (fs *fakeServer) counts() (submit, status, upload int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.submitCalls, fs.statusCalls, fs.uploadCalls
}

func (fs *fakeServer) uploadedFilenames() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	names := make([]string, 0, len(fs.uploads))
	for _, u := range fs.uploads {
		names = append(names, u.filename)
	}
	return names
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	events    []notification
	refreshes int
}

type notification struct {
	severity Severity
	text     string
}

func (n *recordingNotifier) Notify(severity Severity, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{severity: severity, text: text})
}

func (n *recordingNotifier) RefreshCollections() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refreshes++
}

func (n *recordingNotifier) severities() []Severity {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Severity, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.severity)
	}
	return out
}

func statusJSON(status string, result any) string {
	body := map[string]any{"status": status}
	if result != nil {
		body["result"] = result
	}
	data, _ := json.Marshal(body)
	return string(data)
}
