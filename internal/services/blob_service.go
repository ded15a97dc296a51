package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/promptart/backend/internal/config"
)

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// BlobService uploads and deletes image blobs in the media bucket and
// hands out publicly resolvable URLs for them.
type BlobService struct {
	client *s3.Client
	cfg    *config.Config
}

func NewBlobService(cfg *config.Config) (*BlobService, error) {
	client, err := buildClient(cfg.MediaS3Endpoint, cfg.MediaS3Region, cfg.MediaS3AccessKeyID, cfg.MediaS3SecretAccessKey, cfg.MediaS3UsePathStyle)
	if err != nil {
		return nil, err
	}
	return &BlobService{client: client, cfg: cfg}, nil
}

func buildClient(endpoint, region, key, secret string, pathStyle bool) (*s3.Client, error) {
	resolver := awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
		func(service, rgn string, options ...interface{}) (aws.Endpoint, error) {
			if endpoint != "" {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}))
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		resolver,
		awsconfig.WithLogger(logging.NewStandardLogger(nil)),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})
	return client, nil
}

// ImageRefs is the pair of blob references produced by a two-variant
// upload.
type ImageRefs struct {
	ThumbnailURL string `json:"thumbnail_url"`
	OriginalURL  string `json:"original_url"`
}

// UploadFile is one file of a multi-file upload.
type UploadFile struct {
	Filename string
	Data     []byte
}

func (s *BlobService) validateImage(filename string, data []byte) (string, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("invalid content type: expected image, got %s", mimeType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image extension: %s", ext)
	}

	if int64(len(data)) > s.cfg.UploadMaxImageSize {
		return "", fmt.Errorf("image too large: %d bytes (max: %d)", len(data), s.cfg.UploadMaxImageSize)
	}

	return mimeType, nil
}

func (s *BlobService) upload(ctx context.Context, key string, data []byte, ctype string) error {
	uploader := manager.NewUploader(s.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.MediaImagesBucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &ctype,
		ACL:         s3types.ObjectCannedACLPublicRead,
	}, func(u *manager.Uploader) { u.PartSize = 10 * 1024 * 1024 })
	return err
}

// URL returns the publicly resolvable URL for a stored key.
func (s *BlobService) URL(key string) string {
	endpoint := strings.TrimRight(s.cfg.MediaS3Endpoint, "/")
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.MediaImagesBucket, s.cfg.MediaS3Region, url.PathEscape(key))
	}
	return fmt.Sprintf("%s/%s/%s", endpoint, s.cfg.MediaImagesBucket, url.PathEscape(key))
}

// keyFromURL recovers the object key from a URL produced by URL. Blob
// references are stored as full URLs on art documents.
func (s *BlobService) keyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid blob url %q: %w", rawURL, err)
	}
	path := strings.TrimPrefix(u.Path, "/")
	path = strings.TrimPrefix(path, s.cfg.MediaImagesBucket+"/")
	key, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("invalid blob url %q: %w", rawURL, err)
	}
	if key == "" {
		return "", fmt.Errorf("invalid blob url %q: empty key", rawURL)
	}
	return key, nil
}

// thumbKey derives the thumbnail key from the original key by suffixing
// the base name with _thumb.
func thumbKey(key string) string {
	ext := filepath.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb" + ext
}

// UploadImage derives the thumbnail and bounded-original variants and
// uploads both concurrently. Both renditions are JPEG regardless of the
// source format; the key keeps the source extension for traceability.
func (s *BlobService) UploadImage(ctx context.Context, filename string, data []byte) (*ImageRefs, error) {
	if _, err := s.validateImage(filename, data); err != nil {
		return nil, err
	}

	variants, err := DeriveImageVariants(data)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)
	tKey := thumbKey(key)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.upload(gctx, tKey, variants.Thumbnail, "image/jpeg")
	})
	g.Go(func() error {
		return s.upload(gctx, key, variants.Original, "image/jpeg")
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &ImageRefs{
		ThumbnailURL: s.URL(tKey),
		OriginalURL:  s.URL(key),
	}, nil
}

// UploadImageSingle is the legacy single-variant upload path for records
// that carry one URL per image.
func (s *BlobService) UploadImageSingle(ctx context.Context, filename string, data []byte) (string, error) {
	if _, err := s.validateImage(filename, data); err != nil {
		return "", err
	}

	rendition, err := DeriveImageSingle(data)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)
	if err := s.upload(ctx, key, rendition, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s.URL(key), nil
}

// UploadMultiple uploads files one at a time so per-file progress stays
// meaningful, returning thumbnail and original URL slices index-aligned
// with the input order.
func (s *BlobService) UploadMultiple(ctx context.Context, files []UploadFile) ([]string, []string, error) {
	thumbnailURLs := make([]string, 0, len(files))
	originalURLs := make([]string, 0, len(files))

	for i, f := range files {
		refs, err := s.UploadImage(ctx, f.Filename, f.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("while uploading file %d (%s): %w", i, f.Filename, err)
		}
		thumbnailURLs = append(thumbnailURLs, refs.ThumbnailURL)
		originalURLs = append(originalURLs, refs.OriginalURL)
	}

	return thumbnailURLs, originalURLs, nil
}

// DeleteImage removes one blob, best effort: failures are logged and
// swallowed. An orphaned blob is an accepted failure mode, never retried.
func (s *BlobService) DeleteImage(ctx context.Context, rawURL string) {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		log.Printf("Skipping blob delete: %v", err)
		return
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.cfg.MediaImagesBucket,
		Key:    &key,
	})
	if err != nil {
		log.Printf("Failed to delete blob %s: %v", key, err)
	}
}

// DeleteMultiple removes blobs best effort. A failure on one never aborts
// deletion of its siblings.
func (s *BlobService) DeleteMultiple(ctx context.Context, urls []string) {
	for _, u := range urls {
		s.DeleteImage(ctx, u)
	}
}
