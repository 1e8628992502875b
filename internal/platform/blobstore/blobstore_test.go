package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestMemoryStorePutAndGet(t *testing.T) {
	store := NewMemoryStore("https://cdn.example.com")
	ctx := context.Background()

	obj, err := store.Put(ctx, "delivery-photos/l1/photo.jpg", "image/jpeg", strings.NewReader("fake-jpeg-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.Size != int64(len("fake-jpeg-bytes")) {
		t.Errorf("size = %d, want %d", obj.Size, len("fake-jpeg-bytes"))
	}
	if obj.URL != "https://cdn.example.com/delivery-photos/l1/photo.jpg" {
		t.Errorf("url = %q", obj.URL)
	}
	if obj.Hash == "" {
		t.Error("expected content hash")
	}

	rc, meta, err := store.Get(ctx, "delivery-photos/l1/photo.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "fake-jpeg-bytes" {
		t.Errorf("content = %q", data)
	}
	if meta.ContentType != "image/jpeg" {
		t.Errorf("content type = %q", meta.ContentType)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore("https://cdn.example.com")
	_, _, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("got %v, want ErrBlobNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore("https://cdn.example.com")
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", "image/png", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "k"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("second delete: got %v, want ErrBlobNotFound", err)
	}
}

func TestMemoryStoreRejectsContentType(t *testing.T) {
	store := NewMemoryStore("https://cdn.example.com")
	_, err := store.Put(context.Background(), "k", "application/x-sh", strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("got %v, want ErrInvalidContentType", err)
	}
}

func TestMemoryStoreRejectsOversized(t *testing.T) {
	store := NewMemoryStore("https://cdn.example.com")
	big := bytes.NewReader(make([]byte, MaxFileSize+1))
	_, err := store.Put(context.Background(), "k", "image/jpeg", big)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("got %v, want ErrFileTooLarge", err)
	}
}

func TestPhotoKey(t *testing.T) {
	key := PhotoKey("lista-123", "evidencia.PNG")
	if !strings.HasPrefix(key, "delivery-photos/lista-123/") {
		t.Errorf("key = %q, want delivery-photos/lista-123/ prefix", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key = %q, want lowercased .png extension", key)
	}

	// Keys for the same file name must not collide.
	if PhotoKey("lista-123", "evidencia.PNG") == key {
		t.Error("expected unique keys for repeated uploads")
	}
}

func TestSignatureKeyDefaultsExtension(t *testing.T) {
	key := SignatureKey("lista-9", "assinatura")
	if !strings.HasPrefix(key, "delivery-signatures/lista-9/") {
		t.Errorf("key = %q", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key = %q, want .jpg fallback extension", key)
	}
}
