// Package blobstore stores delivery evidence files: photos taken at handoff
// and recipient signatures. It defines the Store interface, an in-memory
// implementation for testing and development, and an S3 implementation for
// production.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlobNotFound       = errors.New("blob not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// MaxFileSize is the maximum allowed evidence file size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedContentTypes lists the MIME types accepted for evidence uploads.
var AllowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Object describes a stored evidence file.
type Object struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Store is the evidence storage abstraction.
type Store interface {
	// Put stores content under key and returns its metadata, including the
	// public URL that will be persisted on the confirmation record.
	Put(ctx context.Context, key, contentType string, content io.Reader) (*Object, error)
	Get(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// PhotoKey builds the storage key for a delivery photo. Files are grouped by
// list so a list's evidence can be browsed together.
func PhotoKey(listID, fileName string) string {
	return evidenceKey("delivery-photos", listID, fileName)
}

// SignatureKey builds the storage key for a recipient signature image.
func SignatureKey(listID, fileName string) string {
	return evidenceKey("delivery-signatures", listID, fileName)
}

func evidenceKey(prefix, listID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%s/%s%s", prefix, listID, uuid.NewString(), ext)
}

type storedBlob struct {
	meta Object
	data []byte
}

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string]storedBlob
	baseURL string
}

// NewMemoryStore returns an empty in-memory store. baseURL prefixes the
// public URLs it reports.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		blobs:   make(map[string]storedBlob),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *MemoryStore) Put(_ context.Context, key, contentType string, content io.Reader) (*Object, error) {
	if !AllowedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	data, err := readLimited(content)
	if err != nil {
		return nil, err
	}

	meta := Object{
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        fmt.Sprintf("%x", sha256.Sum256(data)),
		URL:         s.PublicURL(key),
		UploadedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.blobs[key] = storedBlob{meta: meta, data: data}
	s.mu.Unlock()

	return &meta, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, *Object, error) {
	s.mu.RLock()
	blob, ok := s.blobs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrBlobNotFound
	}
	meta := blob.meta
	return io.NopCloser(bytes.NewReader(blob.data)), &meta, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// readLimited reads at most MaxFileSize bytes, failing if the content is
// larger.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
