// internals/helpers/oss/oss_client.go
package oss

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func envInt(key string, def int) int {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

var (
	// light guard; controllers also enforce their own limits
	maxImageUploadSize = int64(5 * 1024 * 1024)
	maxFileUploadSize  = int64(20 * 1024 * 1024)
)

type Service struct {
	bucket        *alioss.Bucket
	publicBaseURL string
}

// NewServiceFromEnv builds the OSS client from OSS_* env vars.
func NewServiceFromEnv() (*Service, error) {
	endpoint := getEnv("OSS_ENDPOINT")
	keyID := getEnv("OSS_ACCESS_KEY_ID")
	keySecret := getEnv("OSS_ACCESS_KEY_SECRET")
	bucketName := getEnv("OSS_BUCKET")
	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, errors.New("OSS env is not fully configured")
	}

	client, err := alioss.New(endpoint, keyID, keySecret,
		alioss.Timeout(10, 30)) // connect/read-write seconds
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, err
	}

	base := getEnv("OSS_PUBLIC_BASE_URL")
	if base == "" {
		base = fmt.Sprintf("https://%s.%s", bucketName, endpoint)
	}
	return &Service{bucket: bucket, publicBaseURL: strings.TrimRight(base, "/")}, nil
}

// UploadImageAsWebP re-encodes an uploaded image to WebP (resized keep-aspect)
// and stores it under keyPrefix. Returns the public URL.
func (s *Service) UploadImageAsWebP(fh *multipart.FileHeader, keyPrefix string) (string, error) {
	if fh.Size > maxImageUploadSize {
		return "", fmt.Errorf("image too large (max %d bytes)", maxImageUploadSize)
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	maxW := envInt("IMAGE_WEBP_MAX_W", 1600)
	maxH := envInt("IMAGE_WEBP_MAX_H", 1600)
	if img.Bounds().Dx() > maxW || img.Bounds().Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	quality := float32(envInt("IMAGE_WEBP_QUALITY", 80))
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	key := buildObjectKey(keyPrefix, "webp")
	if err := s.bucket.PutObject(key, bytes.NewReader(buf.Bytes()),
		alioss.ContentType("image/webp")); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// UploadRawFile stores an uploaded file as-is (submission attachments).
// allowedExts is lowercase without dots, e.g. ["pdf","zip"]; empty = any.
func (s *Service) UploadRawFile(fh *multipart.FileHeader, keyPrefix string, allowedExts []string, maxSizeMB int) (string, error) {
	limit := maxFileUploadSize
	if maxSizeMB > 0 {
		limit = int64(maxSizeMB) * 1024 * 1024
	}
	if fh.Size > limit {
		return "", fmt.Errorf("file too large (max %d MB)", limit/(1024*1024))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if ext == "" {
		return "", errors.New("file has no extension")
	}
	if len(allowedExts) > 0 {
		ok := false
		for _, a := range allowedExts {
			if strings.EqualFold(a, ext) {
				ok = true
				break
			}
		}
		if !ok {
			return "", fmt.Errorf("file type .%s is not allowed", ext)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	all, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(all)) > limit {
		return "", fmt.Errorf("file too large (max %d MB)", limit/(1024*1024))
	}

	key := buildObjectKey(keyPrefix, ext)
	if err := s.bucket.PutObject(key, bytes.NewReader(all)); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func buildObjectKey(prefix, ext string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}
	return fmt.Sprintf("%s/%s/%s.%s",
		prefix,
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		ext,
	)
}
