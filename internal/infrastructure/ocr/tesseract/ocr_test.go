package tesseract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	output    map[string][]byte
	errs      map[string]error
	calls     [][]string
	renderDir string
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if err := r.errs[name]; err != nil {
		return nil, err
	}
	if name == renderTool {
		// Simulate pdftoppm dropping a page image next to the prefix.
		prefix := args[len(args)-1]
		r.renderDir = filepath.Dir(prefix)
		if err := os.WriteFile(prefix+"-01.png", []byte("png"), 0o644); err != nil {
			return nil, err
		}
	}
	return r.output[name], nil
}

func TestRecognizePageRunsRenderThenRecognize(t *testing.T) {
	runner := &scriptedRunner{
		output: map[string][]byte{recognizeTool: []byte("  Scanned page text \n")},
	}
	engine := NewWithRunner(runner, "eng")

	text, err := engine.RecognizePage(context.Background(), "/docs/scan.pdf", 3)
	require.NoError(t, err)
	assert.Equal(t, "Scanned page text", text)

	require.Len(t, runner.calls, 2)
	render := runner.calls[0]
	assert.Equal(t, renderTool, render[0])
	assert.Equal(t, []string{"-f", "3", "-l", "3", "-r", renderDPI, "-png", "/docs/scan.pdf"}, render[1:len(render)-1])

	recognize := runner.calls[1]
	assert.Equal(t, recognizeTool, recognize[0])
	assert.Equal(t, "stdout", recognize[2])
	assert.Equal(t, []string{"-l", "eng"}, recognize[3:])
}

func TestRecognizePageDefaultsLanguage(t *testing.T) {
	runner := &scriptedRunner{output: map[string][]byte{recognizeTool: []byte("x")}}
	engine := NewWithRunner(runner, "")

	_, err := engine.RecognizePage(context.Background(), "/docs/scan.pdf", 1)
	require.NoError(t, err)
	recognize := runner.calls[1]
	assert.Equal(t, "eng", recognize[len(recognize)-1])
}

func TestRecognizePageFailsWhenRenderFails(t *testing.T) {
	runner := &scriptedRunner{errs: map[string]error{renderTool: errors.New("broken pdf")}}
	engine := NewWithRunner(runner, "eng")

	_, err := engine.RecognizePage(context.Background(), "/docs/scan.pdf", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render pdf page 1")
	require.Len(t, runner.calls, 1)
}

func TestRecognizePageFailsWhenRecognizeFails(t *testing.T) {
	runner := &scriptedRunner{errs: map[string]error{recognizeTool: errors.New("no text")}}
	engine := NewWithRunner(runner, "eng")

	_, err := engine.RecognizePage(context.Background(), "/docs/scan.pdf", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recognize page 2")
}

func TestUnavailableEngineDegradesToEmpty(t *testing.T) {
	runner := &scriptedRunner{}
	engine := newEngine(runner, "eng", false)

	text, err := engine.RecognizePage(context.Background(), "/docs/scan.pdf", 1)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Empty(t, runner.calls)
	assert.False(t, engine.Available())
}
