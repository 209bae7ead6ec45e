package acquire

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/time/rate"

	"github.com/abelbrown/medview/internal/analytics"
	"github.com/abelbrown/medview/internal/staging"
)

const payloadJSON = `{
	"total_patients": 42,
	"age_distribution": {"labels": ["0-18", "19-40"], "values": [10, 32]},
	"gender_distribution": {"labels": ["F", "M"], "values": [20, 22]},
	"diagnoses_distribution": {"labels": ["J06"], "values": [5]},
	"prescription_frequency": {"labels": [], "values": []},
	"exam_frequency": {"labels": ["CBC"], "values": [3]},
	"referral_frequency": {"labels": ["Cardio"], "values": [1]},
	"temporal_distribution": {"labels": ["2024-01", "2024-02"], "values": [12, 30]}
}`

func newTestClient(url string) *Client {
	c := NewClient(url, 0, 0)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestPeriodLabel(t *testing.T) {
	tests := map[string]string{
		"day":     "Today",
		"month":   "This Month",
		"3months": "Last 3 Months",
		"6months": "Last 6 Months",
		"year":    "year",
		"":        "",
	}
	for in, want := range tests {
		if got := PeriodLabel(in); got != want {
			t.Errorf("PeriodLabel(%q) = %q, want %q", in, got, want)
		}
	}
	if got := RemoteSource("month"); got != "ROA API (This Month)" {
		t.Errorf("RemoteSource(month) = %q", got)
	}
	if got := RemoteSource("weekly"); got != "ROA API (weekly)" {
		t.Errorf("RemoteSource(weekly) = %q", got)
	}
}

func TestFetchRemoteSendsPeriod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/fetch-api-data" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var body struct {
			Period string `json:"period"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Period != "month" {
			t.Errorf("period = %q, want month", body.Period)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payloadJSON)
	}))
	defer server.Close()

	p, err := newTestClient(server.URL).FetchRemote(context.Background(), "month")
	if err != nil {
		t.Fatalf("FetchRemote: %v", err)
	}
	if p.Total() != 42 {
		t.Errorf("total = %d, want 42", p.Total())
	}
	if p.AgeDistribution.Len() != 2 {
		t.Errorf("age categories = %d, want 2", p.AgeDistribution.Len())
	}
}

func TestSampleErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/sample" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": "backend down"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Sample(context.Background())
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if aerr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", aerr.Status)
	}
	if aerr.Message != "backend down" {
		t.Errorf("message = %q", aerr.Message)
	}
}

func TestErrorFallbacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer server.Close()
	c := newTestClient(server.URL)

	_, err := c.Sample(context.Background())
	if err == nil || err.Error() != "Error getting sample data" {
		t.Errorf("sample fallback = %v", err)
	}
	_, err = c.FetchRemote(context.Background(), "day")
	if err == nil || err.Error() != "Error fetching API data" {
		t.Errorf("remote fallback = %v", err)
	}
	_, err = c.Upload(context.Background(), nil)
	if err == nil || err.Error() != "Error uploading files" {
		t.Errorf("upload fallback = %v", err)
	}
}

func TestEmptyErrorFieldFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": ""}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Sample(context.Background())
	if err == nil || err.Error() != "Error getting sample data" {
		t.Errorf("expected fallback, got %v", err)
	}
}

func TestUploadMultipart(t *testing.T) {
	dir := t.TempDir()
	var files []staging.StagedFile
	for i, name := range []string{"patient1.med", "patient2.med"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("record "+name), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, staging.StagedFile{ID: i + 1, Name: name, Path: path})
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		got := r.MultipartForm.File["files"]
		if len(got) != 2 {
			t.Fatalf("expected 2 file fields, got %d", len(got))
		}
		for i, fh := range got {
			if fh.Filename != files[i].Name {
				t.Errorf("file %d name = %q", i, fh.Filename)
			}
			f, _ := fh.Open()
			b, _ := io.ReadAll(f)
			f.Close()
			if string(b) != "record "+files[i].Name {
				t.Errorf("file %d content = %q", i, b)
			}
		}
		io.WriteString(w, payloadJSON)
	}))
	defer server.Close()

	p, err := newTestClient(server.URL).Upload(context.Background(), files)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if p.Total() != 42 {
		t.Errorf("total = %d", p.Total())
	}
}

func TestUploadMissingFile(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	_, err := c.Upload(context.Background(), []staging.StagedFile{{Name: "gone.med", Path: "/nonexistent/gone.med"}})
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Sample(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var aerr *Error
	if errors.As(err, &aerr) {
		t.Error("transport failure should not be an *Error")
	}
}

func TestMalformedPayloadIsContractViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"total_patients": 3}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Sample(context.Background())
	if !errors.Is(err, analytics.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

func TestNonJSONSuccessBodyIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>proxy login</html>")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Sample(context.Background())
	if !errors.Is(err, analytics.ErrMalformedBody) {
		t.Errorf("expected ErrMalformedBody, got %v", err)
	}
	if errors.Is(err, analytics.ErrMissingField) {
		t.Error("undecodable body must not be reported as a missing field")
	}
}

func TestNewClientTrimsBaseURL(t *testing.T) {
	c := NewClient("http://localhost:5000/", 0, 0)
	if c.BaseURL() != "http://localhost:5000" {
		t.Errorf("base URL = %q", c.BaseURL())
	}
}
