// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// UploadData carries a parsed multipart upload from transport to service.
type UploadData struct {
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// UploadedFile is one ingested image persisted in the incoming directory.
// The request that created it owns it until cleanup or the sweeper reclaims it.
type UploadedFile struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// Artifact is the output of one upscaler invocation.
type Artifact struct {
	Path        string
	Size        int64
	ContentType string
}

//-------------------

// Result is the streaming handle for a finished upscale: reading it streams
// the artifact, closing it releases the file and runs cleanup exactly once.
type Result struct {
	file        io.ReadCloser
	cleanup     func()
	once        sync.Once
	ContentType string
	Size        int64
	Duration    time.Duration
}

func NewResult(file io.ReadCloser, cType string, size int64, took time.Duration, cleanup func()) *Result {
	return &Result{
		file:        file,
		cleanup:     cleanup,
		ContentType: cType,
		Size:        size,
		Duration:    took,
	}
}

func (r *Result) Read(p []byte) (int, error) {
	return r.file.Read(p)
}

func (r *Result) Close() error {
	err := r.file.Close()
	if r.cleanup != nil {
		r.once.Do(r.cleanup)
	}
	return err
}

// ------------------

var (
	ErrNoFile            error = errors.New("no image file provided")                 // 400
	ErrUnsupportedFormat error = errors.New("unsupported image format")               // 400
	ErrFileTooLarge      error = errors.New("image exceeds the maximum allowed size") // 400
	ErrTooManyFiles      error = errors.New("too many files in request")              // 400
	ErrUpscaleFailed     error = errors.New("upscaling failed")                       // 500
	ErrOutputMissing     error = errors.New("upscaler completed but output missing")  // 500
	ErrCommon500         error = errors.New("something went wrong. Try again later")  // 500
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	WEBP = "image/webp"
)

const (
	MaxUploadBytes     = 20 << 20
	MaxFilesPerRequest = 10
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	WEBP: ".webp",
}

var InImageTypeMap = map[string]bool{
	JPEG: true,
	PNG:  true,
	WEBP: true,
}

var GetCType = map[imaging.Format]string{
	imaging.JPEG: JPEG,
	imaging.PNG:  PNG,
}

// ContentTypeForExt infers an artifact's content type from its file
// extension, falling back to PNG for anything unrecognized.
func ContentTypeForExt(ext string) string {
	if strings.EqualFold(ext, ".webp") {
		return WEBP
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return PNG
	}

	if cType, ok := GetCType[format]; ok {
		return cType
	}
	return PNG
}
