package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/celestiq/interviewer/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentStore struct {
	db *gorm.DB
}

// NewDocumentStore returns the gorm-backed Store implementation.
func NewDocumentStore(db *gorm.DB) Store {
	return &documentStore{db: db}
}

func (s *documentStore) Write(ctx context.Context, path []string, doc Doc) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	value, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document for %s: %w", Join(path), err)
	}
	record := model.Document{Path: Join(path), Value: value, UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", record.Path, err)
	}
	return nil
}

func (s *documentStore) Read(ctx context.Context, path []string) (Doc, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	var record model.Document
	err := s.db.WithContext(ctx).First(&record, "path = ?", Join(path)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", Join(path), err)
	}
	return decode(record)
}

// Update merges the partial document's top-level fields into whatever
// exists at the path, creating the document if absent. Read-then-write;
// the single-writer-per-session assumption makes this safe.
func (s *documentStore) Update(ctx context.Context, path []string, partial Doc) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	existing, err := s.Read(ctx, path)
	if errors.Is(err, ErrNotFound) {
		existing = Doc{}
	} else if err != nil {
		return err
	}
	for k, v := range partial {
		existing[k] = v
	}
	return s.Write(ctx, path, existing)
}

func (s *documentStore) List(ctx context.Context, prefix []string) (map[string]Doc, error) {
	query := s.db.WithContext(ctx).Model(&model.Document{}).Order("path ASC")
	if len(prefix) > 0 {
		query = query.Where("path LIKE ?", Join(prefix)+"/%")
	}
	var records []model.Document
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents under %s: %w", Join(prefix), err)
	}
	out := make(map[string]Doc, len(records))
	for _, record := range records {
		doc, err := decode(record)
		if err != nil {
			return nil, err
		}
		out[record.Path] = doc
	}
	return out, nil
}

func decode(record model.Document) (Doc, error) {
	var doc Doc
	if err := json.Unmarshal(record.Value, &doc); err != nil {
		return nil, fmt.Errorf("corrupt document at %s: %w", record.Path, err)
	}
	return doc, nil
}
