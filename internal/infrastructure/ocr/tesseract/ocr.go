package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	renderTool    = "pdftoppm"
	recognizeTool = "tesseract"
	renderDPI     = "300"
)

// CommandRunner executes an external tool and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// Engine runs OCR on single PDF pages by rendering the page to an image with
// pdftoppm and recognizing it with tesseract. When either tool is missing the
// engine degrades to empty output so ingestion still works on text-only PDFs.
type Engine struct {
	runner    CommandRunner
	language  string
	available bool
}

func New(language string) *Engine {
	available := true
	for _, tool := range []string{renderTool, recognizeTool} {
		if _, err := exec.LookPath(tool); err != nil {
			available = false
			break
		}
	}
	return newEngine(execRunner{}, language, available)
}

// NewWithRunner builds an engine around a custom runner; used by tests.
func NewWithRunner(runner CommandRunner, language string) *Engine {
	return newEngine(runner, language, true)
}

func newEngine(runner CommandRunner, language string, available bool) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{runner: runner, language: language, available: available}
}

func (e *Engine) Available() bool {
	return e.available
}

func (e *Engine) RecognizePage(ctx context.Context, pdfPath string, page int) (string, error) {
	if !e.available {
		return "", nil
	}

	dir, err := os.MkdirTemp("", "docqa-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create ocr temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	pageArg := strconv.Itoa(page)
	if _, err := e.runner.Run(ctx, renderTool,
		"-f", pageArg, "-l", pageArg, "-r", renderDPI, "-png", pdfPath, prefix,
	); err != nil {
		return "", fmt.Errorf("render pdf page %d: %w", page, err)
	}

	image, err := renderedImage(prefix)
	if err != nil {
		return "", err
	}

	out, err := e.runner.Run(ctx, recognizeTool, image, "stdout", "-l", e.language)
	if err != nil {
		return "", fmt.Errorf("recognize page %d: %w", page, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// renderedImage finds the page image; pdftoppm zero-pads the page suffix
// depending on the document's page count.
func renderedImage(prefix string) (string, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("locate rendered page: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no rendered page image under %s", filepath.Dir(prefix))
	}
	return matches[0], nil
}
