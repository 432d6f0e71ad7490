// Package service provides business-logic for the app
package service

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/nvoropaev/upscaler/internal/model"
	"github.com/nvoropaev/upscaler/internal/mwlogger"
)

type UpscaleService struct {
	store   FileStore
	invoker Upscaler
}

// FileStore - контракт для работы с транзитными директориями
type FileStore interface {
	PersistUpload(r io.Reader, field, origName, cType string) (*model.UploadedFile, error)
	Delete(path string)
	OutgoingDir() string
}

// Upscaler - контракт для запуска внешнего апскейлера
type Upscaler interface {
	Invoke(ctx context.Context, inputPath, outDir string) (*model.Artifact, error)
}

func NewUpscaleService(store FileStore, invoker Upscaler) *UpscaleService {
	return &UpscaleService{
		store:   store,
		invoker: invoker,
	}
}

// Upscale runs the whole pipeline for one request: validate, persist the
// upload, invoke the external tool, open the artifact for streaming. The
// returned Result owns cleanup of both transient files; every failure path
// before that deletes whatever was already written.
func (c UpscaleService) Upscale(ctx context.Context, data *model.UploadData) (*model.Result, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if err := validateUpload(data); err != nil {
		return nil, err
	}

	upload, err := c.store.PersistUpload(data.File, "image", data.Filename, data.ContentType)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to persist upload")
		return nil, model.ErrCommon500
	}

	// Client disconnect must not kill the child mid-run: it finishes and
	// its output is reclaimed by cleanup or the sweeper.
	start := time.Now()
	artifact, err := c.invoker.Invoke(context.WithoutCancel(ctx), upload.Path, c.store.OutgoingDir())
	took := time.Since(start)
	if err != nil {
		c.store.Delete(upload.Path)
		logger.Error().Err(err).Str("upload", upload.Name).Msg("Upscaling failed")
		return nil, err
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		c.store.Delete(upload.Path)
		c.store.Delete(artifact.Path)
		logger.Error().Err(err).Str("path", artifact.Path).Msg("Failed to open artifact for streaming")
		return nil, model.ErrCommon500
	}

	logger.Info().
		Str("upload", upload.Name).
		Int64("output_bytes", artifact.Size).
		Dur("took", took).
		Msg("Upscaling finished")

	return model.NewResult(f, artifact.ContentType, artifact.Size, took, func() {
		c.store.Delete(upload.Path)
		c.store.Delete(artifact.Path)
	}), nil
}
