package service

import (
	"github.com/nvoropaev/upscaler/internal/model"
)

func validateUpload(data *model.UploadData) error {
	// есть ли вообще файл
	if data == nil || data.File == nil || data.Size <= 0 {
		return model.ErrNoFile
	}

	// тип из allow-list
	if !model.InImageTypeMap[data.ContentType] {
		return model.ErrUnsupportedFormat
	}

	// потолок размера
	if data.Size > model.MaxUploadBytes {
		return model.ErrFileTooLarge
	}

	return nil
}
