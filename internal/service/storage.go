package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore persists images submitted as data URIs and resolves them to URLs.
type BlobStore interface {
	UploadDataURI(ctx context.Context, dataURI, prefix string) (string, error)
	Delete(ctx context.Context, url string) error
}

// StorageService stores image blobs in S3.
type StorageService struct {
	client *s3.Client
	bucket string
}

var _ BlobStore = (*StorageService)(nil)

// NewStorageService initializes the S3 client using environment or shared AWS config.
func NewStorageService(ctx context.Context, bucket, region string) (*StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	return &StorageService{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}, nil
}

// UploadDataURI decodes a "data:image/<ext>;base64,<payload>" string, uploads
// the blob under the given key prefix and returns its public URL.
func (s *StorageService) UploadDataURI(ctx context.Context, dataURI, prefix string) (string, error) {
	ext, data, err := DecodeImageDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.%s", prefix, uuid.New().String(), ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	log.Printf("[StorageService] Uploaded image to %s", publicURL)
	return publicURL, nil
}

// Delete removes a previously uploaded blob. Unknown URLs are ignored.
func (s *StorageService) Delete(ctx context.Context, url string) error {
	base := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
	if !strings.HasPrefix(url, base) {
		return nil
	}
	key := strings.TrimPrefix(url, base)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// DecodeImageDataURI splits a base64 image data URI into its extension and raw
// bytes.
func DecodeImageDataURI(dataURI string) (string, []byte, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", nil, fmt.Errorf("not an image data URI")
	}
	rest := strings.TrimPrefix(dataURI, "data:image/")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, fmt.Errorf("missing base64 payload")
	}
	ext := rest[:sep]
	data, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if ext == "" || len(data) == 0 {
		return "", nil, fmt.Errorf("empty image payload")
	}
	return ext, data, nil
}
