// internal/services/helpers_test.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noblehomes/backoffice/internal/models"
	"github.com/noblehomes/backoffice/internal/utils"
)

// fakeObjectStore records every call so tests can assert on transfer order,
// orphaned objects and cleanup behavior.
type fakeObjectStore struct {
	mu       sync.Mutex
	objects  map[string]time.Time
	putOrder []string
	deleted  []string

	// failOn makes Put fail for any key containing the substring
	failOn string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]time.Time)}
}

func (f *fakeObjectStore) Put(key string, body io.Reader, contentType string) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return "", fmt.Errorf("simulated transfer failure for %s", key)
	}

	f.objects[key] = time.Now()
	f.putOrder = append(f.putOrder, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeObjectStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) List(prefix string) ([]StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var objects []StoredObject
	for key, created := range f.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, StoredObject{Key: key, LastModified: created})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (f *fakeObjectStore) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.putOrder)
}

func (f *fakeObjectStore) objectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeObjectStore) setObjectAge(key string, age time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = time.Now().Add(-age)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Listing{},
		&models.AdminProfile{},
		&models.AuditLog{},
	))

	return db
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func defaultPagination() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

type testFile struct {
	name    string
	content []byte
}

// fileHeaders builds real multipart file headers the way an incoming request
// would, so the sequencer is exercised with the same types the handlers see.
func fileHeaders(t *testing.T, field string, files ...testFile) []*multipart.FileHeader {
	t.Helper()

	if len(files) == 0 {
		return nil
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)

	return form.File[field]
}

func imageFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	files := make([]testFile, len(names))
	for i, name := range names {
		files[i] = testFile{name: name, content: []byte("image bytes for " + name)}
	}
	return fileHeaders(t, "images", files...)
}

func videoFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	files := make([]testFile, len(names))
	for i, name := range names {
		files[i] = testFile{name: name, content: []byte("video bytes for " + name)}
	}
	return fileHeaders(t, "videos", files...)
}
