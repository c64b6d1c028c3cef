package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/worker"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestartMessage is recorded on jobs whose worker vanished with a previous
// process.
const RestartMessage = "interrupted by server restart"

const terminalWriteTimeout = 10 * time.Second

// Scheduler runs background tasks. *worker.Pool implements it.
type Scheduler interface {
	Submit(t worker.Task) error
}

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// detached returns a context for terminal writes that survives the task
// deadline which may have caused the failure being recorded.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.NotFound("%s %s not found", what, raw)
	}
	return id, nil
}

func lookupError(err error, what string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s %s not found", what, id)
	}
	return apperror.Wrap(apperror.KindInternal, err, "load %s %s", what, id)
}

// readyError classifies a record that is not completed.
func readyError(what string, id uuid.UUID, status model.JobStatus, message string) error {
	switch status {
	case model.StatusCompleted:
		return nil
	case model.StatusError:
		return apperror.Failed("%s %s failed: %s", what, id, message)
	}
	return apperror.NotReady("%s %s is still %s", what, id, status)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "extraction timed out"
	case errors.Is(err, context.Canceled):
		return "extraction was cancelled"
	}
	return err.Error()
}

func busyError(err error) error {
	if errors.Is(err, worker.ErrStopped) {
		return apperror.Wrap(apperror.KindUnavailable, err, "server is shutting down")
	}
	return apperror.Wrap(apperror.KindBusy, err, "too many uploads in progress, retry later")
}

func validateUpload(filename string, content []byte, maxBytes int64, allowed ...string) error {
	if strings.TrimSpace(filename) == "" {
		return apperror.Validation("file name is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	ok := false
	for _, a := range allowed {
		if ext == a {
			ok = true
			break
		}
	}
	if !ok {
		return apperror.Validation("unsupported file type %q, expected one of %s", ext, strings.Join(allowed, ", "))
	}
	if len(content) == 0 {
		return apperror.Validation("file is empty")
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return apperror.Validation("file is too large (max %s)", humanBytes(maxBytes))
	}
	return nil
}

func humanBytes(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
