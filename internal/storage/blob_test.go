// Package storage - Test MemoryBlobStore: upload, trùng tên, resolve.
package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ish_admin/internal/common"
)

func TestMemoryBlobStore_UploadAndResolve(t *testing.T) {
	store := NewMemoryBlobStore()
	ctx := context.Background()

	ref, err := store.Upload(ctx, []byte("anh san pham"), "tivi.png")
	if err != nil {
		t.Fatalf("Upload lỗi: %v", err)
	}
	if ref != "products/tivi.png" {
		t.Errorf("Reference không đúng, nhận được: %s", ref)
	}

	resolved := store.Resolve(ctx, ref)
	if resolved != ref {
		t.Errorf("Resolve phải trả về reference đã upload, nhận được: %s", resolved)
	}
}

func TestMemoryBlobStore_DuplicateNameGetsSuffix(t *testing.T) {
	store := NewMemoryBlobStore()
	ctx := context.Background()

	first, err := store.Upload(ctx, []byte("a"), "tivi.png")
	if err != nil {
		t.Fatalf("Upload lần 1 lỗi: %v", err)
	}
	second, err := store.Upload(ctx, []byte("b"), "tivi.png")
	if err != nil {
		t.Fatalf("Upload lần 2 lỗi: %v", err)
	}

	if first == second {
		t.Error("Upload trùng tên phải sinh reference khác nhau")
	}
	if !strings.HasPrefix(second, "products/tivi_") || !strings.HasSuffix(second, ".png") {
		t.Errorf("Reference trùng tên phải có hậu tố uuid giữ nguyên extension, nhận được: %s", second)
	}
	if store.Len() != 2 {
		t.Errorf("Phải có 2 object, nhận được: %d", store.Len())
	}
}

func TestMemoryBlobStore_ResolveEmptyReference(t *testing.T) {
	store := NewMemoryBlobStore()
	if got := store.Resolve(context.Background(), ""); got != "" {
		t.Errorf("Resolve reference rỗng phải trả về chuỗi rỗng, nhận được: %s", got)
	}
}

func TestMemoryBlobStore_ResolveMissingObject(t *testing.T) {
	store := NewMemoryBlobStore()
	if got := store.Resolve(context.Background(), "products/khong_ton_tai.png"); got != "" {
		t.Errorf("Resolve object không tồn tại phải trả về chuỗi rỗng, nhận được: %s", got)
	}
}

func TestMemoryBlobStore_ResolveFullURLPassthrough(t *testing.T) {
	store := NewMemoryBlobStore()
	url := "https://storage.googleapis.com/bucket/products/tivi.png"
	if got := store.Resolve(context.Background(), url); got != url {
		t.Errorf("Reference là URL đầy đủ phải được giữ nguyên, nhận được: %s", got)
	}
}

func TestMemoryBlobStore_FailUploads(t *testing.T) {
	store := NewMemoryBlobStore()
	store.FailUploads = true

	_, err := store.Upload(context.Background(), []byte("a"), "tivi.png")
	if !errors.Is(err, common.ErrUploadFailed) {
		t.Errorf("Upload thất bại phải trả về ErrUploadFailed, nhận được: %v", err)
	}
}
