// internal/services/storage.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/noblehomes/backoffice/internal/config"
)

type StoredObject struct {
	Key          string
	LastModified time.Time
}

// ObjectStore is the external blob storage the listing media lives in. Put
// returns the retrieval URL once the transfer has completed.
type ObjectStore interface {
	Put(key string, body io.Reader, contentType string) (string, error)
	Delete(key string) error
	List(prefix string) ([]StoredObject, error)
}

type StorageService struct {
	s3Client *s3.S3
	config   *config.Config

	// local development fallback when no AWS credentials are configured
	mu    sync.Mutex
	local map[string]time.Time
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		logrus.Warn("AWS credentials not configured, using local storage stub")
		return &StorageService{config: cfg, local: make(map[string]time.Time)}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

func (s *StorageService) Put(key string, body io.Reader, contentType string) (string, error) {
	fileBytes, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if s.s3Client == nil {
		s.mu.Lock()
		s.local[key] = time.Now()
		s.mu.Unlock()
		return fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key), nil
	}

	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *StorageService) Delete(key string) error {
	if s.s3Client == nil {
		s.mu.Lock()
		delete(s.local, key)
		s.mu.Unlock()
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}

	return nil
}

func (s *StorageService) List(prefix string) ([]StoredObject, error) {
	if s.s3Client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		var objects []StoredObject
		for key, created := range s.local {
			if strings.HasPrefix(key, prefix) {
				objects = append(objects, StoredObject{Key: key, LastModified: created})
			}
		}
		sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
		return objects, nil
	}

	var objects []StoredObject
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Prefix: aws.String(prefix),
	}

	err := s.s3Client.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			objects = append(objects, StoredObject{
				Key:          aws.StringValue(obj.Key),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
	}

	return objects, nil
}

func (s *StorageService) objectURL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

// IsValidImageSignature checks the magic bytes of common image formats.
// Used for avatar uploads where only images are acceptable.
func IsValidImageSignature(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	// WebP
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}
