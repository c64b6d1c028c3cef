package service

import (
	"context"
	"errors"
	"net"

	"github.com/fadilmartias/resume-parser/internal/model"
	"go.uber.org/zap"
)

// ErrUnreachable marks transport failures where the remote service could not
// be reached at all, as opposed to a slow or rejecting service.
var ErrUnreachable = errors.New("service unreachable")

// IsUnreachable reports whether err means the collaborator could not be
// contacted: refused connections and DNS failures. Deadlines and timeouts are
// not unreachability.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// FallbackResumeExtractor serves the demonstration payload when the primary
// extractor cannot be reached. Every other failure is returned unchanged.
type FallbackResumeExtractor struct {
	primary  ResumeExtractorInterface
	fallback ResumeExtractorInterface
	log      *zap.Logger
}

func NewFallbackResumeExtractor(primary ResumeExtractorInterface, log *zap.Logger) *FallbackResumeExtractor {
	return &FallbackResumeExtractor{primary: primary, fallback: NewDemoResumeExtractor(), log: log}
}

func (f *FallbackResumeExtractor) Extract(ctx context.Context, filename string, content []byte) (model.Resume, error) {
	resume, err := f.primary.Extract(ctx, filename, content)
	if IsUnreachable(err) {
		f.log.Warn("resume extractor unreachable, serving demo payload", zap.Error(err))
		return f.fallback.Extract(ctx, filename, content)
	}
	return resume, err
}

// FallbackJobParser switches to keyword detection when the language model
// cannot be reached.
type FallbackJobParser struct {
	primary  JobParserInterface
	fallback JobParserInterface
	log      *zap.Logger
}

func NewFallbackJobParser(primary JobParserInterface, log *zap.Logger) *FallbackJobParser {
	return &FallbackJobParser{primary: primary, fallback: NewDemoJobParser(), log: log}
}

func (f *FallbackJobParser) ParseJobDescription(ctx context.Context, text string) (model.JobDescription, error) {
	jd, err := f.primary.ParseJobDescription(ctx, text)
	if IsUnreachable(err) {
		f.log.Warn("job parser unreachable, using keyword analysis", zap.Error(err))
		return f.fallback.ParseJobDescription(ctx, text)
	}
	return jd, err
}
