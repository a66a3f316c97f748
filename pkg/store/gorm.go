package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jinzhu/gorm"
	"github.com/mattn/go-sqlite3"

	"video-catalog/pkg/models"
)

// GormVideoStore implements VideoStore on a gorm handle.
type GormVideoStore struct {
	db  *gorm.DB
	log *log.Helper
}

var _ VideoStore = (*GormVideoStore)(nil)

func NewGormVideoStore(db *gorm.DB, logger log.Logger) *GormVideoStore {
	return &GormVideoStore{
		db:  db,
		log: log.NewHelper(log.With(logger, "module", "store/videos")),
	}
}

func (s *GormVideoStore) List(ctx context.Context, filter string) ([]models.VideoRecord, error) {
	tx := s.db
	if filter != "" {
		// instr keeps the match case-sensitive and treats % and _ literally.
		tx = tx.Where("instr(title, ?) > 0", filter)
	}

	records := make([]models.VideoRecord, 0)
	if err := tx.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return records, nil
}

func (s *GormVideoStore) GetByID(ctx context.Context, id string) (*models.VideoRecord, error) {
	var record models.VideoRecord
	err := s.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &record, nil
}

func (s *GormVideoStore) Insert(ctx context.Context, record models.VideoRecord) error {
	// A raw statement: gorm's Create drops a blank primary key from the
	// column list, which would store an empty id as NULL.
	err := s.db.Exec(
		"INSERT INTO videos (id, title, duration, uploaded_at) VALUES (?, ?, ?, ?)",
		record.ID, record.Title, record.Duration, record.UploadedAt,
	).Error
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return ErrVideoExists
		}
		return fmt.Errorf("insert video: %w", err)
	}

	s.log.WithContext(ctx).Infof("video inserted: id=%s title=%s", record.ID, record.Title)
	return nil
}

func (s *GormVideoStore) Update(ctx context.Context, id string, record models.VideoRecord) (int64, error) {
	// A raw statement: gorm's Updates would add the new primary key to the
	// WHERE clause and miss the row whenever id changes.
	res := s.db.Exec(
		"UPDATE videos SET id = ?, title = ?, duration = ?, uploaded_at = ? WHERE id = ?",
		record.ID, record.Title, record.Duration, record.UploadedAt, id,
	)
	if res.Error != nil {
		if isPrimaryKeyViolation(res.Error) {
			return 0, ErrVideoExists
		}
		return 0, fmt.Errorf("update video: %w", res.Error)
	}

	s.log.WithContext(ctx).Infof("video updated: id=%s new_id=%s rows=%d", id, record.ID, res.RowsAffected)
	return res.RowsAffected, nil
}

func (s *GormVideoStore) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrVideoNotFound
	}

	res := s.db.Where("id = ?", id).Delete(&models.VideoRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVideoNotFound
	}

	s.log.WithContext(ctx).Infof("video deleted: id=%s", id)
	return nil
}

func (s *GormVideoStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.Model(&models.VideoRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
