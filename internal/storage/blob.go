// Package storage cung cấp lớp lưu trữ file ảnh sản phẩm trên Firebase Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ish_admin/internal/common"
	"ish_admin/internal/utility"
)

// BlobStore định nghĩa interface cho việc upload và resolve ảnh sản phẩm.
// Reference là đường dẫn object trong bucket (vd: "products/abc.png").
type BlobStore interface {
	// Upload lưu dữ liệu và trả về reference. Trùng tên sẽ được gắn thêm hậu tố uuid.
	Upload(ctx context.Context, data []byte, suggestedName string) (string, error)
	// Resolve chuyển reference thành URL hiển thị. Reference rỗng trả về chuỗi rỗng.
	Resolve(ctx context.Context, reference string) string
}

// FirebaseBlobStore triển khai BlobStore trên bucket mặc định của Firebase Storage.
type FirebaseBlobStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebaseBlobStore tạo BlobStore từ Firebase app đã được khởi tạo (utility.InitFirebase).
func NewFirebaseBlobStore(ctx context.Context, bucketName string) (*FirebaseBlobStore, error) {
	app := utility.GetFirebaseApp()
	if app == nil {
		return nil, common.NewError(common.ErrCodeStorage, "Firebase app chưa được khởi tạo", common.StatusInternalServerError, nil)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, common.NewError(common.ErrCodeStorage, "Không thể khởi tạo Firebase Storage client", common.StatusInternalServerError, err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, common.NewError(common.ErrCodeStorage, "Không thể lấy bucket mặc định", common.StatusInternalServerError, err)
	}

	return &FirebaseBlobStore{
		bucket:     bucket,
		bucketName: bucketName,
	}, nil
}

// Upload lưu ảnh vào thư mục products/ trong bucket.
// Nếu tên object đã tồn tại, gắn thêm hậu tố uuid để tránh ghi đè.
func (s *FirebaseBlobStore) Upload(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if len(data) == 0 {
		return "", common.NewError(common.ErrCodeValidationInput, "Dữ liệu ảnh rỗng", common.StatusBadRequest, nil)
	}

	name := sanitizeObjectName(suggestedName)
	objectPath := path.Join("products", name)

	// Kiểm tra trùng tên
	_, err := s.bucket.Object(objectPath).Attrs(ctx)
	if err == nil {
		// Object đã tồn tại, gắn hậu tố uuid
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		objectPath = path.Join("products", fmt.Sprintf("%s_%s%s", base, uuid.New().String(), ext))
	} else if !errors.Is(err, gcs.ErrObjectNotExist) {
		return "", common.ErrUploadFailed
	}

	writer := s.bucket.Object(objectPath).NewWriter(ctx)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		logrus.WithFields(logrus.Fields{
			"object": objectPath,
			"error":  err.Error(),
		}).Error("Upload ảnh thất bại")
		return "", common.ErrUploadFailed
	}
	if err := writer.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"object": objectPath,
			"error":  err.Error(),
		}).Error("Upload ảnh thất bại khi đóng writer")
		return "", common.ErrUploadFailed
	}

	return objectPath, nil
}

// Resolve chuyển reference thành URL công khai.
// Reference rỗng hoặc không resolve được trả về chuỗi rỗng, không bao giờ lỗi.
func (s *FirebaseBlobStore) Resolve(ctx context.Context, reference string) string {
	if reference == "" {
		return ""
	}

	// Reference đã là URL đầy đủ
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return reference
	}

	_, err := s.bucket.Object(reference).Attrs(ctx)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"reference": reference,
			"error":     err.Error(),
		}).Warn("Không resolve được ảnh sản phẩm")
		return ""
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, reference)
}

// sanitizeObjectName làm sạch tên file trước khi dùng làm object name
func sanitizeObjectName(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return uuid.New().String()
	}
	return strings.ReplaceAll(name, " ", "_")
}
