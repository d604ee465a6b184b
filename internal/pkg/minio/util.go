package minio

import (
	"Slipboard/internal/api/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ScanURLExpiry 模型读取截图的链接有效期
const ScanURLExpiry = 30 * time.Minute

var ErrNotInitialized = errors.New("minio client is not initialized")

// UploadFile 上传文件到指定桶，返回对象名
func UploadFile(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", ErrNotInitialized
	}
	uploadInfo, err := Client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return uploadInfo.Key, nil
}

// GetPublicURL 主桶对象的公共访问地址，已是完整地址时原样返回
func GetPublicURL(objectName string) string {
	if objectName == "" || strings.HasPrefix(objectName, "http://") || strings.HasPrefix(objectName, "https://") {
		return objectName
	}
	if config.Cfg == nil || config.Cfg.MinIO.ExternalEndpoint == "" {
		return objectName
	}
	return fmt.Sprintf("https://%s/%s/%s", config.Cfg.MinIO.ExternalEndpoint, MainBucket, objectName)
}

// ScanStore 注单截图存储，返回模型可读取的地址
type ScanStore struct{}

func NewScanStore() *ScanStore {
	return &ScanStore{}
}

// Configured 是否可用
func (s *ScanStore) Configured() bool {
	return Client != nil
}

// Put 截图写入临时桶，按日期分目录
func (s *ScanStore) Put(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	objectName := "scan/" + time.Now().Format("2006/01/02/") + uuid.NewString() + ext
	key, err := UploadFile(ctx, TempBucket, objectName, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", err
	}

	if config.Cfg != nil && config.Cfg.MinIO.UsePublicLink && config.Cfg.MinIO.ExternalEndpoint != "" {
		return fmt.Sprintf("https://%s/%s/%s", config.Cfg.MinIO.ExternalEndpoint, TempBucket, key), nil
	}
	u, err := Client.PresignedGetObject(ctx, TempBucket, key, ScanURLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign scan url: %w", err)
	}
	return u.String(), nil
}
