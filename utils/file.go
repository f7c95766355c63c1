package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// SaveUpload stores an uploaded file under uploads/<key> and returns the
// locally served URL. Used when R2 is not configured.
func SaveUpload(fileHeader *multipart.FileHeader, key string) (string, error) {
	destPath := filepath.Join("uploads", filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}

// StoreMedia uploads to R2 when available, otherwise to local disk.
func StoreMedia(fileHeader *multipart.FileHeader, key string) (string, error) {
	if R2Ready() {
		return UploadFileToR2(fileHeader, key)
	}
	return SaveUpload(fileHeader, key)
}
