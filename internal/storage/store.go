// Package storage provides the binary store used for product images. The
// store is an injected dependency with its own lifecycle, never a process
// global.
package storage

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sampoornam/internal/models"
)

// Store persists binary files in the stored_files table.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a Store on top of the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Put saves the file content and returns its id.
func (s *Store) Put(filename, contentType string, data []byte) (uuid.UUID, error) {
	file := models.StoredFile{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}
	if err := s.db.Create(&file).Error; err != nil {
		return uuid.Nil, err
	}
	return file.ID, nil
}

// Get loads a stored file by id.
func (s *Store) Get(id uuid.UUID) (*models.StoredFile, error) {
	var file models.StoredFile
	if err := s.db.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// Delete removes a stored file.
func (s *Store) Delete(id uuid.UUID) error {
	return s.db.Delete(&models.StoredFile{}, "id = ?", id).Error
}
