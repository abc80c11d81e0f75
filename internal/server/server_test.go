package server_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ishe/internal/api"
	"ishe/internal/export"
	"ishe/internal/journal"
	"ishe/internal/logging"
	"ishe/internal/recordings"
	"ishe/internal/server"
	"ishe/internal/testsupport"
)

type fixture struct {
	store   *recordings.Store
	journal *journal.Store
	ts      *httptest.Server
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenRecordings(t, cfg)
	jr := testsupport.MustOpenJournal(t, cfg)
	srv := server.New(server.Options{
		Store:       store,
		Journal:     jr,
		Logger:      logging.NewNop(),
		Token:       cfg.Paths.APIToken,
		UploadLimit: 1024,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &fixture{store: store, journal: jr, ts: ts}
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := f.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) api.Error {
	t.Helper()
	var payload api.Error
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload
}

func TestListRecordings(t *testing.T) {
	f := newFixture(t)
	testsupport.WriteRecording(t, f.store.Root(), "2024-03-01T10-00-01.000Z.csv", "0,1\n")
	testsupport.WriteRecording(t, f.store.Root(), "2024-03-01T10-00-00.000Z.csv", "0,2\n")
	testsupport.WriteRecording(t, f.store.Root(), "readme.txt", "skip")

	resp := f.do(t, http.MethodGet, "/api/recordings", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list api.RecordingList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	names := list.Names()
	if len(names) != 2 || names[0] != "2024-03-01T10-00-00.000Z.csv" {
		t.Fatalf("unexpected listing %v", names)
	}
	if list.Recordings[0].StartedAt != "2024-03-01T10:00:00.000Z" {
		t.Fatalf("unexpected startedAt %q", list.Recordings[0].StartedAt)
	}
}

func TestDownloadRecording(t *testing.T) {
	f := newFixture(t)
	testsupport.WriteRecording(t, f.store.Root(), "a.csv", "0,10\n")

	resp := f.do(t, http.MethodGet, "/api/recordings/a.csv", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "0,10\n" {
		t.Fatalf("unexpected body %q", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("unexpected content type %q", ct)
	}

	if resp := f.do(t, http.MethodGet, "/api/recordings/missing.csv", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodGet, "/api/recordings/..%2Fsecret.csv", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for traversal, got %d", resp.StatusCode)
	}
	if payload := decodeError(t, resp); payload.Kind != api.KindInvalidName {
		t.Fatalf("unexpected error kind %q", payload.Kind)
	}
}

func TestUploadRecording(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPut, "/api/recordings/a.csv", strings.NewReader("0,10\n120,-5\n"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	data, err := f.store.Read(context.Background(), "a.csv")
	if err != nil || string(data) != "0,10\n120,-5\n" {
		t.Fatalf("stored data = %q, %v", data, err)
	}

	entries, err := f.journal.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Action != journal.ActionUpload || entries[0].Name != "a.csv" || entries[0].Bytes != 12 {
		t.Fatalf("unexpected journal %+v", entries)
	}
	if entries[0].RequestID == "" || entries[0].RequestID != resp.Header.Get("X-Request-Id") {
		t.Fatalf("journal request id %q does not match response %q", entries[0].RequestID, resp.Header.Get("X-Request-Id"))
	}
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t)
	parent := filepath.Dir(f.store.Root())

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"traversal", "/api/recordings/..%2Fescape.csv", "0,1\n", http.StatusBadRequest},
		{"backslash", "/api/recordings/sub%5Cx.csv", "0,1\n", http.StatusBadRequest},
		{"wrong extension", "/api/recordings/notes.txt", "0,1\n", http.StatusBadRequest},
		{"malformed csv", "/api/recordings/bad.csv", "zero,ten\n", http.StatusBadRequest},
		{"too large", "/api/recordings/big.csv", testsupport.SampleCSV(200), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPut, tt.path, strings.NewReader(tt.body))
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(parent, "escape.csv")); !os.IsNotExist(err) {
		t.Fatalf("upload escaped the recordings root: %v", err)
	}
	names, _ := f.store.List(context.Background())
	if len(names) != 0 {
		t.Fatalf("rejected uploads were stored: %v", names)
	}
}

func TestDeleteRecording(t *testing.T) {
	f := newFixture(t)
	testsupport.WriteRecording(t, f.store.Root(), "a.csv", "0,1\n")
	testsupport.WriteRecording(t, f.store.Root(), "b.csv", "0,2\n")
	testsupport.WriteRecording(t, filepath.Dir(f.store.Root()), "secret.csv", "keep")

	if resp := f.do(t, http.MethodDelete, "/api/recordings/..%2Fsecret.csv", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp := f.do(t, http.MethodDelete, "/api/recordings/a.csv", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp := f.do(t, http.MethodDelete, "/api/recordings/a.csv", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.StatusCode)
	}

	names, _ := f.store.List(context.Background())
	if len(names) != 1 || names[0] != "b.csv" {
		t.Fatalf("unexpected remaining recordings %v", names)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(f.store.Root()), "secret.csv")); err != nil {
		t.Fatalf("secret.csv should survive: %v", err)
	}
}

func TestPercentInNameIsLiteral(t *testing.T) {
	f := newFixture(t)
	testsupport.WriteRecording(t, f.store.Root(), "x%41.csv", "0,1\n")
	testsupport.WriteRecording(t, f.store.Root(), "xA.csv", "0,2\n")

	if resp := f.do(t, http.MethodDelete, "/api/recordings/x%2541.csv", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp := f.do(t, http.MethodPut, "/api/recordings/y%2542.csv", strings.NewReader("0,3\n")); resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	names, _ := f.store.List(context.Background())
	if want := []string{"xA.csv", "y%42.csv"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("recordings = %v, want %v", names, want)
	}
}

func TestBundle(t *testing.T) {
	f := newFixture(t)
	testsupport.WriteRecording(t, f.store.Root(), "b.csv", "0,2\n")
	testsupport.WriteRecording(t, f.store.Root(), "a.csv", "0,1\n")

	resp := f.do(t, http.MethodGet, "/api/bundle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, server.BundleFileName) {
		t.Fatalf("unexpected disposition %q", cd)
	}
	data, _ := io.ReadAll(resp.Body)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 2 || zr.File[0].Name != "a.csv" || zr.File[1].Name != "b.csv" {
		t.Fatalf("unexpected entries %v", zr.File)
	}
}

type failingBundleStore struct {
	*recordings.Store
}

func (failingBundleStore) Bundle(context.Context) ([]byte, []string, error) {
	return nil, nil, &export.ArchiveError{Name: "b.csv", Err: errors.New("permission denied")}
}

func TestBundleFailureIs500(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := server.New(server.Options{Store: failingBundleStore{testsupport.MustOpenRecordings(t, cfg)}})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/bundle")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	payload := decodeError(t, resp)
	if payload.Kind != "archive" || !strings.Contains(payload.Error, "b.csv") {
		t.Fatalf("unexpected error payload %+v", payload)
	}
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t, testsupport.WithAPIToken("s3cret"))

	if resp := f.do(t, http.MethodGet, "/api/recordings", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, f.ts.URL+"/api/recordings", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := f.ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, f.ts.URL+"/api/recordings", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = f.ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestJournalEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPut, "/api/recordings/a.csv", strings.NewReader("0,1\n"))
	f.do(t, http.MethodPut, "/api/recordings/b.csv", strings.NewReader("0,2\n"))
	f.do(t, http.MethodDelete, "/api/recordings/a.csv", nil)

	resp := f.do(t, http.MethodGet, "/api/journal?limit=2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list api.JournalList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Entries) != 2 || list.Entries[0].Action != "delete" || list.Entries[1].Name != "b.csv" {
		t.Fatalf("unexpected journal %+v", list.Entries)
	}

	if resp := f.do(t, http.MethodGet, "/api/journal?limit=zero", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.StatusCode)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	testsupport.WriteRecording(t, f.store.Root(), "a.csv", "0,1\n")
	f.do(t, http.MethodGet, "/api/bundle", nil)

	resp := f.do(t, http.MethodGet, "/api/status", nil)
	var status api.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status.Running || status.Recordings != 1 || status.TotalBytes != 4 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Activity["bundle"] != 1 {
		t.Fatalf("expected bundle activity, got %v", status.Activity)
	}
	if status.RecordingsDir != f.store.Root() {
		t.Fatalf("unexpected recordings dir %q", status.RecordingsDir)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	f := newFixture(t)
	req, _ := http.NewRequest(http.MethodGet, f.ts.URL+"/api/recordings/missing.csv", nil)
	req.Header.Set("X-Request-Id", "req-42")
	resp, err := f.ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("response request id = %q", got)
	}
	if payload := decodeError(t, resp); payload.RequestID != "req-42" || payload.Kind != "not_found" {
		t.Fatalf("unexpected error payload %+v", payload)
	}
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	if resp := f.do(t, http.MethodGet, "/api/nope", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if resp := f.do(t, http.MethodPost, "/api/recordings/a.csv", nil); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
