// Package storage uploads user images to S3-compatible object storage.
//
// ImageStore sniffs the content type from the payload, rejects anything
// that is not a jpeg, png, gif or webp, and writes objects public-read
// under uuid keys:
//
//	store, err := storage.New(cfg.Storage)
//	info, err := store.Put(ctx, file, header.Size, "avatars")
//	url := store.URL(info.Key)
//
// A custom Endpoint with PathStyle supports MinIO in development.
package storage
