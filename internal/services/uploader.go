// internal/services/uploader.go
package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type UploadedAsset struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type UploadLimits struct {
	MaxSize      int64 // in bytes, 0 = unlimited
	AllowedTypes []string
}

// Uploader transfers a batch of selected files to the object store and
// collects their retrieval URLs in submission order. A batch either yields a
// URL for every file or fails as a whole: the first transfer failure aborts
// the batch and no partial result is returned. Files already transferred are
// not rolled back here; the orphan sweeper reclaims them.
type Uploader struct {
	store   ObjectStore
	workers int
	now     func() time.Time
}

// NewUploader returns an uploader that runs at most workers transfers at a
// time. workers <= 1 gives the strictly sequential behavior the listing
// forms have always had; higher values upload concurrently while still
// preserving input order in the result.
func NewUploader(store ObjectStore, workers int) *Uploader {
	if workers < 1 {
		workers = 1
	}
	return &Uploader{
		store:   store,
		workers: workers,
		now:     time.Now,
	}
}

// UploadBatch uploads each file under {namespace}/{kind}/{epochMillis}_{name}
// and returns the uploaded assets in the same order the files were given.
func (u *Uploader) UploadBatch(namespace, kind string, files []*multipart.FileHeader, limits UploadLimits) ([]UploadedAsset, error) {
	if len(files) == 0 {
		return nil, nil
	}

	// Size and type limits are checked for the whole batch up front, before
	// any bytes move.
	for _, header := range files {
		if err := checkLimits(header, limits); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}

	if u.workers <= 1 {
		return u.uploadSequential(namespace, kind, files)
	}
	return u.uploadConcurrent(namespace, kind, files)
}

func (u *Uploader) uploadSequential(namespace, kind string, files []*multipart.FileHeader) ([]UploadedAsset, error) {
	assets := make([]UploadedAsset, 0, len(files))
	for _, header := range files {
		asset, err := u.uploadOne(namespace, kind, header)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (u *Uploader) uploadConcurrent(namespace, kind string, files []*multipart.FileHeader) ([]UploadedAsset, error) {
	// Keys must be derived before fan-out so result ordering and timestamp
	// ordering both follow the input order.
	keys := make([]string, len(files))
	for i, header := range files {
		keys[i] = u.deriveKey(namespace, kind, header.Filename)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	assets := make([]UploadedAsset, len(files))
	sem := make(chan struct{}, u.workers)

	for i, header := range files {
		wg.Add(1)
		go func(i int, header *multipart.FileHeader) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Skip transfers that have not started once the batch is failing.
			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed {
				return
			}

			url, err := u.transfer(keys[i], header)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			assets[i] = UploadedAsset{Key: keys[i], URL: url}
		}(i, header)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return assets, nil
}

func (u *Uploader) uploadOne(namespace, kind string, header *multipart.FileHeader) (UploadedAsset, error) {
	key := u.deriveKey(namespace, kind, header.Filename)
	url, err := u.transfer(key, header)
	if err != nil {
		return UploadedAsset{}, err
	}
	return UploadedAsset{Key: key, URL: url}, nil
}

func (u *Uploader) transfer(key string, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", &TransferError{Key: key, Err: err}
	}
	defer file.Close()

	url, err := u.store.Put(key, file, header.Header.Get("Content-Type"))
	if err != nil {
		return "", &TransferError{Key: key, Err: err}
	}
	return url, nil
}

func (u *Uploader) deriveKey(namespace, kind, originalName string) string {
	return fmt.Sprintf("%s/%s/%d_%s", namespace, kind, u.now().UnixMilli(), filepath.Base(originalName))
}

func checkLimits(header *multipart.FileHeader, limits UploadLimits) error {
	if limits.MaxSize > 0 && header.Size > limits.MaxSize {
		return fmt.Errorf("file %s is %d bytes, exceeding the %d byte limit", header.Filename, header.Size, limits.MaxSize)
	}

	if len(limits.AllowedTypes) > 0 {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		allowed := false
		for _, allowedType := range limits.AllowedTypes {
			if ext == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("file type %s is not allowed", ext)
		}
	}

	return nil
}
