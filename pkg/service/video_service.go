// Package service holds the video catalog use cases: input validation,
// id uniqueness and existence checks, and partial-update merging.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"video-catalog/pkg/models"
	"video-catalog/pkg/store"
)

// Field is one optional attribute of a request body as decoded from JSON.
// Value keeps the raw decoded type so wrong-typed input can be rejected.
type Field struct {
	Present bool
	Value   interface{}
}

// StringField is a present string attribute.
func StringField(s string) Field {
	return Field{Present: true, Value: s}
}

// str reports the string value, or "" when absent. ok is false only for a
// present value of another JSON type (null included).
func (f Field) str() (s string, ok bool) {
	if !f.Present {
		return "", true
	}
	s, ok = f.Value.(string)
	return s, ok
}

type CreateVideoInput struct {
	ID       Field
	Title    Field
	Duration Field
}

type UpdateVideoInput struct {
	ID       Field
	Title    Field
	Duration Field
}

// VideoService is stateless; it can be shared by concurrent requests.
type VideoService struct {
	store store.VideoStore
	now   func() time.Time
	log   *log.Helper
}

type Option func(*VideoService)

// WithClock replaces time.Now as the source of uploaded_at.
func WithClock(now func() time.Time) Option {
	return func(s *VideoService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewVideoService(videos store.VideoStore, logger log.Logger, opts ...Option) *VideoService {
	s := &VideoService{
		store: videos,
		now:   time.Now,
		log:   log.NewHelper(log.With(logger, "module", "service/videos")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *VideoService) ListVideos(ctx context.Context, filter string) ([]models.PersistedVideo, error) {
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, storeError("failed to list videos", err)
	}

	videos := make([]models.PersistedVideo, 0, len(records))
	for _, r := range records {
		videos = append(videos, models.NewPersistedVideo(r))
	}
	return videos, nil
}

func (s *VideoService) GetVideo(ctx context.Context, id string) (models.PersistedVideo, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.PersistedVideo{}, storeError("failed to read video", err)
	}
	if record == nil {
		return models.PersistedVideo{}, notFoundError("video not found")
	}
	return models.NewPersistedVideo(*record), nil
}

// CreateVideo rejects wrong-typed fields but accepts a missing title or
// duration; only id is mandatory.
func (s *VideoService) CreateVideo(ctx context.Context, in CreateVideoInput) (models.NewVideo, error) {
	id, ok := in.ID.str()
	if !ok {
		return models.NewVideo{}, validationError("'id' must be a string")
	}
	title, ok := in.Title.str()
	if !ok {
		return models.NewVideo{}, validationError("'title' must be a string")
	}
	duration, ok := in.Duration.str()
	if !ok {
		return models.NewVideo{}, validationError("'duration' must be a string")
	}
	if !in.ID.Present {
		return models.NewVideo{}, validationError("'id' is required")
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.NewVideo{}, storeError("failed to check video id", err)
	}
	if existing != nil {
		return models.NewVideo{}, conflictError("'id' already exists")
	}

	video := models.NewVideoAt(id, title, duration, s.now())
	if err := s.store.Insert(ctx, models.ToRecord(video)); err != nil {
		if errors.Is(err, store.ErrVideoExists) {
			return models.NewVideo{}, conflictError("'id' already exists")
		}
		return models.NewVideo{}, storeError("failed to create video", err)
	}

	s.log.WithContext(ctx).Infof("CreateVideo: id=%s title=%s", id, title)
	return video, nil
}

// UpdateVideo merges the given fields into the video stored under id. An
// empty or absent field keeps the stored value; uploaded_at never changes.
// A non-string id in the body is rejected instead of being coerced to text
// by the store.
func (s *VideoService) UpdateVideo(ctx context.Context, id string, in UpdateVideoInput) error {
	newID, ok := in.ID.str()
	if !ok {
		return validationError("'id' must be a string")
	}
	newTitle, ok := in.Title.str()
	if !ok {
		return validationError("'title' must be a string")
	}
	newDuration, ok := in.Duration.str()
	if !ok {
		return validationError("'duration' must be a string")
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return storeError("failed to read video", err)
	}
	if existing == nil {
		return notFoundError("video not found")
	}

	merged := models.VideoRecord{
		ID:         firstNonEmpty(newID, existing.ID),
		Title:      firstNonEmpty(newTitle, existing.Title),
		Duration:   firstNonEmpty(newDuration, existing.Duration),
		UploadedAt: existing.UploadedAt,
	}

	if _, err := s.store.Update(ctx, id, merged); err != nil {
		if errors.Is(err, store.ErrVideoExists) {
			return conflictError("'id' already exists")
		}
		return storeError("failed to update video", err)
	}

	s.log.WithContext(ctx).Infof("UpdateVideo: id=%s new_id=%s", id, merged.ID)
	return nil
}

// DeleteVideo reports a missing id as a validation failure, not as
// not-found.
func (s *VideoService) DeleteVideo(ctx context.Context, id string) error {
	if id == "" {
		return validationError("'id' must be a string")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrVideoNotFound) {
			return validationError("invalid id")
		}
		return storeError("failed to delete video", err)
	}

	s.log.WithContext(ctx).Infof("DeleteVideo: id=%s", id)
	return nil
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
