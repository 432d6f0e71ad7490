package main

import (
	"context"

	"github.com/nvoropaev/upscaler/internal/model"
)

type UpscaleAPIService interface {
	Upscale(ctx context.Context, data *model.UploadData) (*model.Result, error)
}
