package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newVLMTestService(t *testing.T, handler http.Handler) *VLMRunService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewVLMRunService(&config.VLMRunConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		Domain:       "document.resume",
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}, zaptest.NewLogger(t))
}

func TestVLMRunService_Extract(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "assistants", r.FormValue("purpose"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(body))

		w.Write([]byte(`{"id": "file-1"}`))
	})
	mux.HandleFunc("POST /document/generate", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "file-1", req["file_id"])
		assert.Equal(t, "document.resume", req["domain"])

		w.Write([]byte(`{"id": "pred-1", "status": "pending"}`))
	})
	mux.HandleFunc("GET /predictions/pred-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 2 {
			w.Write([]byte(`{"id": "pred-1", "status": "running"}`))
			return
		}
		w.Write([]byte(`{"id": "pred-1", "status": "completed", "response": {
			"contact_info": {"full_name": "Jane Doe", "email": "jane@example.com"},
			"technical_skills": {"backend": ["Go", "SQL"]}
		}}`))
	})

	s := newVLMTestService(t, mux)
	r, err := s.Extract(context.Background(), "cv.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", r.PersonalInfo.FullName)
	assert.Equal(t, []string{"Go", "SQL"}, r.Skills)
	assert.False(t, r.Demo)
	assert.GreaterOrEqual(t, polls.Load(), int32(2))
}

func TestVLMRunService_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upload rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "bad key"}`))
			},
		},
		{
			name: "upload without id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
		{
			name: "prediction failed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/files" {
					w.Write([]byte(`{"id": "file-1"}`))
					return
				}
				w.Write([]byte(`{"id": "pred-1", "status": "failed", "message": "unreadable"}`))
			},
		},
		{
			name: "completed without content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/files" {
					w.Write([]byte(`{"id": "file-1"}`))
					return
				}
				w.Write([]byte(`{"id": "pred-1", "status": "completed", "response": {}}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newVLMTestService(t, tt.handler)
			_, err := s.Extract(context.Background(), "cv.pdf", []byte("x"))
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindUpstream), "got %v", err)
		})
	}
}

func TestVLMRunService_PollDeadline(t *testing.T) {
	s := newVLMTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files" {
			w.Write([]byte(`{"id": "file-1"}`))
			return
		}
		w.Write([]byte(`{"id": "pred-1", "status": "pending"}`))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Extract(ctx, "cv.pdf", []byte("x"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindUpstream))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
