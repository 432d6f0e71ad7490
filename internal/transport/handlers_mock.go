package transport

import (
	"context"

	"github.com/nvoropaev/upscaler/internal/model"
)

type mockUpscaleService struct {
	upscaleFn func(ctx context.Context, data *model.UploadData) (*model.Result, error)
}

func (m *mockUpscaleService) Upscale(ctx context.Context, data *model.UploadData) (*model.Result, error) {
	if m.upscaleFn != nil {
		return m.upscaleFn(ctx, data)
	}
	return nil, nil
}
