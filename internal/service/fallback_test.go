package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsUnreachable(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "connection refused", err: fmt.Errorf("post: %w", refused), want: true},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "api.invalid"}, want: true},
		{name: "marked", err: apperror.Upstream(fmt.Errorf("%w: boom", ErrUnreachable), "upload"), want: true},
		{name: "deadline", err: apperror.Upstream(context.DeadlineExceeded, "upload timed out"), want: false},
		{name: "dial timeout", err: &net.OpError{Op: "dial", Err: timeoutErr{}}, want: false},
		{name: "read reset", err: &net.OpError{Op: "read", Err: errors.New("connection reset")}, want: false},
		{name: "rejected", err: apperror.Upstream(errors.New("status 500"), "upload rejected"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnreachable(tt.err))
		})
	}
}

type stubExtractor struct {
	resume model.Resume
	err    error
}

func (s stubExtractor) Extract(ctx context.Context, filename string, content []byte) (model.Resume, error) {
	return s.resume, s.err
}

type stubParser struct {
	jd  model.JobDescription
	err error
}

func (s stubParser) ParseJobDescription(ctx context.Context, text string) (model.JobDescription, error) {
	return s.jd, s.err
}

func TestFallbackResumeExtractor(t *testing.T) {
	unreachable := apperror.Upstream(fmt.Errorf("%w: dial tcp", ErrUnreachable), "upload file request failed")

	resume, err := NewFallbackResumeExtractor(stubExtractor{err: unreachable}, zaptest.NewLogger(t)).
		Extract(context.Background(), "cv.pdf", []byte("pdf"))
	require.NoError(t, err)
	assert.True(t, resume.Demo)
	assert.Equal(t, DemoResume().PersonalInfo.FullName, resume.PersonalInfo.FullName)

	rejected := apperror.Upstream(errors.New("status 401"), "upload file rejected")
	_, err = NewFallbackResumeExtractor(stubExtractor{err: rejected}, zaptest.NewLogger(t)).
		Extract(context.Background(), "cv.pdf", []byte("pdf"))
	assert.ErrorIs(t, err, rejected)

	extracted := model.Resume{Skills: []string{"Go"}}
	resume, err = NewFallbackResumeExtractor(stubExtractor{resume: extracted}, zaptest.NewLogger(t)).
		Extract(context.Background(), "cv.pdf", []byte("pdf"))
	require.NoError(t, err)
	assert.False(t, resume.Demo)
	assert.Equal(t, []string{"Go"}, resume.Skills)
}

func TestFallbackJobParser(t *testing.T) {
	unreachable := &net.DNSError{Err: "no such host", Name: "api.openai.invalid"}

	jd, err := NewFallbackJobParser(stubParser{err: unreachable}, zaptest.NewLogger(t)).
		ParseJobDescription(context.Background(), "Go and Docker")
	require.NoError(t, err)
	assert.True(t, jd.Demo)

	_, err = NewFallbackJobParser(stubParser{err: context.DeadlineExceeded}, zaptest.NewLogger(t)).
		ParseJobDescription(context.Background(), "Go")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
