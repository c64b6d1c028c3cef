package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// minTextChars is the amount of embedded text below which a PDF is treated
// as scanned and sent through OCR.
const minTextChars = 50

var ErrNoText = errors.New("no text could be extracted from the PDF")

// PDFTextExtractor pulls text out of PDF bytes, falling back to Tesseract OCR
// for image-only documents when the binary is installed.
type PDFTextExtractor struct {
	log *zap.Logger
}

func NewPDFTextExtractor(log *zap.Logger) *PDFTextExtractor {
	return &PDFTextExtractor{log: log}
}

func (e *PDFTextExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var text strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page, err := doc.Text(n)
		if err != nil {
			e.log.Warn("pdf page text failed", zap.Int("page", n+1), zap.Error(err))
			continue
		}
		text.WriteString(page)
		text.WriteString("\n")
	}

	result := strings.TrimSpace(text.String())
	if len(result) >= minTextChars {
		return result, nil
	}

	e.log.Info("pdf has little embedded text, trying OCR", zap.Int("chars", len(result)), zap.Int("pages", doc.NumPage()))
	ocr, err := e.ocr(ctx, doc)
	if err != nil {
		if result != "" {
			return result, nil
		}
		return "", fmt.Errorf("%w: %v", ErrNoText, err)
	}
	return ocr, nil
}

func (e *PDFTextExtractor) ocr(ctx context.Context, doc *fitz.Document) (string, error) {
	if err := checkTesseract(ctx); err != nil {
		return "", err
	}

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
			continue
		}

		pageText, err := ocrImage(ctx, img)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			e.log.Warn("ocr page failed", zap.Error(lastErr))
			continue
		}
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract text via OCR: %w", lastErr)
		}
		return "", ErrNoText
	}
	return result, nil
}

func ocrImage(ctx context.Context, img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	err = png.Encode(tmpFile, img)
	tmpFile.Close()
	if err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	out, err := exec.CommandContext(ctx, "tesseract", tmpPath, "stdout", "-l", "eng").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "tesseract", "-v").Run(); err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w", err)
	}
	return nil
}
