package models

import "time"

// Document is an immutable upload record. ContentDigest is computed from the
// payload at upload time and never recomputed; the payload itself lives in
// object storage under StorageKey.
type Document struct {
	ID            string
	OwnerID       string
	Name          string
	MediaType     string
	ContentDigest string
	StorageKey    string
	Size          int64
	UploadedAt    time.Time
}
