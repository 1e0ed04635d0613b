package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig    = errors.New("storage: invalid configuration")
	ErrEmptyFile        = errors.New("storage: file is empty")
	ErrFileTooLarge     = errors.New("storage: file exceeds size limit")
	ErrUnsupportedImage = errors.New("storage: file is not a supported image")
	ErrNotFound         = errors.New("storage: file not found")
	ErrAccessDenied     = errors.New("storage: access denied")
	ErrUploadFailed     = errors.New("storage: upload failed")
	ErrDeleteFailed     = errors.New("storage: delete failed")
)

// wrapS3Error maps S3 failures onto sentinel errors. The original error is
// formatted with %v so callers match with errors.Is against the sentinels
// rather than errors.As against AWS types.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
