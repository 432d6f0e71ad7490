package service

import (
	"context"
	"io"

	"github.com/nvoropaev/upscaler/internal/model"
)

type mockStore struct {
	persistFn   func(r io.Reader, field, origName, cType string) (*model.UploadedFile, error)
	outgoingDir string
	deleted     []string
}

func (m *mockStore) PersistUpload(r io.Reader, field, origName, cType string) (*model.UploadedFile, error) {
	if m.persistFn != nil {
		return m.persistFn(r, field, origName, cType)
	}
	return nil, nil
}

func (m *mockStore) Delete(path string) {
	m.deleted = append(m.deleted, path)
}

func (m *mockStore) OutgoingDir() string {
	return m.outgoingDir
}

type mockInvoker struct {
	invokeFn func(ctx context.Context, inputPath, outDir string) (*model.Artifact, error)
	calls    int
}

func (m *mockInvoker) Invoke(ctx context.Context, inputPath, outDir string) (*model.Artifact, error) {
	m.calls++
	if m.invokeFn != nil {
		return m.invokeFn(ctx, inputPath, outDir)
	}
	return nil, nil
}
