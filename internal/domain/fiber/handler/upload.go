package handler

import (
	"io"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/gofiber/fiber/v2"
)

// readUpload returns the name and bytes of the multipart "file" field.
// Reads stop one byte past maxBytes so oversized files are still rejected
// by the usecase without buffering all of them.
func readUpload(c *fiber.Ctx, maxBytes int64) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, apperror.Validation("file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, apperror.Wrap(apperror.KindInternal, err, "open upload")
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", nil, apperror.Wrap(apperror.KindInternal, err, "read upload")
	}
	return fh.Filename, content, nil
}
