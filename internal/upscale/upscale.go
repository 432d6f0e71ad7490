// Package upscale wraps invocation of the external upscaling executable
package upscale

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/nvoropaev/upscaler/internal/model"
)

const (
	outputPrefix = "upscaled_"
	defaultExt   = ".png"

	// captured stdout+stderr kept for error reporting; the streams are
	// drained past this point so the child never blocks on a full pipe
	maxDiagBytes = 64 << 10
)

type Invoker struct {
	bin       string
	modelDir  string
	modelName string
	scale     int
}

func NewInvoker(bin, modelDir, modelName string, scale int) *Invoker {
	return &Invoker{
		bin:       bin,
		modelDir:  modelDir,
		modelName: modelName,
		scale:     scale,
	}
}

// OutputPath computes the expected artifact path for an input: same base
// name with a fixed prefix, defaulting the extension when the input has none.
func (u *Invoker) OutputPath(inputPath, outDir string) string {
	base := filepath.Base(inputPath)
	if filepath.Ext(base) == "" {
		base += defaultExt
	}
	return filepath.Join(outDir, outputPrefix+base)
}

// Invoke runs the external tool synchronously and resolves the outcome from
// its exit status plus the presence of the expected output file. No retries.
func (u *Invoker) Invoke(ctx context.Context, inputPath, outDir string) (*model.Artifact, error) {
	outPath := u.OutputPath(inputPath, outDir)

	cmd := exec.CommandContext(ctx, u.bin,
		"-i", inputPath,
		"-o", outPath,
		"-m", u.modelDir,
		"-n", u.modelName,
		"-s", strconv.Itoa(u.scale),
	)

	diag := &cappedBuffer{limit: maxDiagBytes}
	cmd.Stdout = diag
	cmd.Stderr = diag

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to launch %q: %v", model.ErrUpscaleFailed, u.bin, err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: exit code %d: %s", model.ErrUpscaleFailed, exitErr.ExitCode(), diag.String())
		}
		return nil, fmt.Errorf("%w: %v", model.ErrUpscaleFailed, err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: expected %q", model.ErrOutputMissing, outPath)
	}

	return &model.Artifact{
		Path:        outPath,
		Size:        info.Size(),
		ContentType: model.ContentTypeForExt(filepath.Ext(outPath)),
	}, nil
}

// cappedBuffer accepts writes forever but retains only the first limit
// bytes, so diagnostics stay bounded while the pipes keep draining.
type cappedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if remain := b.limit - b.buf.Len(); remain > 0 {
		if len(p) > remain {
			b.buf.Write(p[:remain])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
