// internal/services/sweeper.go
package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/noblehomes/backoffice/internal/models"
)

// OrphanSweeper reclaims objects that a failed submission left behind. An
// aborted batch never rolls back the files it already transferred, so the
// store accumulates objects no listing references. The sweep lists the media
// prefixes, subtracts every key referenced by a listing or admin profile
// (soft-deleted rows included), and deletes what is left once it is older
// than the grace period. The grace period keeps the sweep from racing a
// submission whose commit has not landed yet.
type OrphanSweeper struct {
	db          *gorm.DB
	store       ObjectStore
	prefixes    []string
	gracePeriod time.Duration
}

func NewOrphanSweeper(db *gorm.DB, store ObjectStore, namespace string, gracePeriod time.Duration) *OrphanSweeper {
	return &OrphanSweeper{
		db:          db,
		store:       store,
		prefixes:    []string{namespace + "/", "admins/"},
		gracePeriod: gracePeriod,
	}
}

// Sweep runs one reconciliation pass and returns how many objects were
// deleted.
func (s *OrphanSweeper) Sweep() (int, error) {
	referenced, err := s.referencedKeys()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.gracePeriod)
	deleted := 0

	for _, prefix := range s.prefixes {
		objects, err := s.store.List(prefix)
		if err != nil {
			return deleted, fmt.Errorf("failed to list %s: %w", prefix, err)
		}

		for _, obj := range objects {
			if referenced[obj.Key] {
				continue
			}
			if obj.LastModified.After(cutoff) {
				continue
			}

			if err := s.store.Delete(obj.Key); err != nil {
				logrus.WithError(err).WithField("key", obj.Key).Warn("Failed to delete orphaned object")
				continue
			}
			deleted++
		}
	}

	if deleted > 0 {
		logrus.WithField("deleted", deleted).Info("Orphaned objects reclaimed")
	}
	return deleted, nil
}

func (s *OrphanSweeper) referencedKeys() (map[string]bool, error) {
	referenced := make(map[string]bool)

	var listings []models.Listing
	if err := s.db.Unscoped().Select("image_keys", "video_keys").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load listing keys: %w", err)
	}
	for _, l := range listings {
		for _, key := range l.ImageKeys {
			referenced[key] = true
		}
		for _, key := range l.VideoKeys {
			referenced[key] = true
		}
	}

	var admins []models.AdminProfile
	if err := s.db.Unscoped().Select("avatar_key").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to load admin avatar keys: %w", err)
	}
	for _, a := range admins {
		if a.AvatarKey != "" {
			referenced[a.AvatarKey] = true
		}
	}

	return referenced, nil
}
