// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/nvoropaev/upscaler/internal/model"
	"github.com/wb-go/wbf/ginext"
)

// size ceiling plus headroom for multipart framing, enforced before the
// body is parsed so an oversized request never spills to disk in full
const maxRequestBytes = model.MaxUploadBytes + 1<<20

type UpscaleHandler struct {
	service UpscaleService
}

type UpscaleService interface {
	Upscale(ctx context.Context, data *model.UploadData) (*model.Result, error)
}

func NewUpscaleHandler(svc UpscaleService) *UpscaleHandler {
	return &UpscaleHandler{
		service: svc,
	}
}

func (h UpscaleHandler) Health(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"status": "healthy"})
}

func (h UpscaleHandler) Upscale(ctx *ginext.Context) {
	// обрезаем тело запроса заранее - до разбора multipart
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxRequestBytes)

	// парсинг исходника - берем только первый файл
	imageFile, imageHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			ctx.JSON(400, errorBody(model.ErrFileTooLarge, "request body exceeds the maximum allowed size"))
			return
		}
		ctx.JSON(400, errorBody(model.ErrNoFile, `multipart field "image" is required`))
		return
	}
	defer closeFileFlow(imageFile)

	// ограничение на количество файлов в запросе
	if form := ctx.Request.MultipartForm; form != nil && len(form.File["image"]) > model.MaxFilesPerRequest {
		ctx.JSON(400, errorBody(model.ErrTooManyFiles, model.ErrTooManyFiles.Error()))
		return
	}

	data := model.UploadData{
		File:        imageFile,
		Filename:    imageHeader.Filename,
		ContentType: imageHeader.Header.Get("Content-Type"),
		Size:        imageHeader.Size,
	}

	// передаем в сервис
	res, err := h.service.Upscale(ctx.Request.Context(), &data)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), errorBody(err, err.Error()))
		return
	}
	defer closeFileFlow(res)

	ctx.Writer.Header().Set("Content-Type", res.ContentType)
	ctx.Writer.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
	ctx.Writer.Header().Set("X-Output-Size", strconv.FormatInt(res.Size, 10))
	ctx.Writer.Header().Set("X-Processing-Time-Ms", strconv.FormatInt(res.Duration.Milliseconds(), 10))
	ctx.Writer.WriteHeader(200)

	// headers are committed at this point, a broken stream can only be logged
	if n, err := io.Copy(ctx.Writer, res); err != nil {
		log.Printf("Failed to write response at byte %d for file %q: %v", n, imageHeader.Filename, err)
	}
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}
