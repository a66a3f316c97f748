// Package export writes a JSON snapshot of the whole catalog to object
// storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"video-catalog/pkg/models"
	"video-catalog/pkg/store"
)

// ObjectUploader is satisfied by *s3.Uploader.
type ObjectUploader interface {
	Upload(ctx context.Context, key string, body io.Reader) (string, error)
}

// Snapshot is the document written to storage.
type Snapshot struct {
	ExportedAt string                  `json:"exported_at"`
	Count      int                     `json:"count"`
	Videos     []models.PersistedVideo `json:"videos"`
}

type Result struct {
	Key      string
	Location string
	Count    int
}

type Exporter struct {
	videos   store.VideoStore
	uploader ObjectUploader
	prefix   string
	now      func() time.Time
	log      *log.Helper
}

func NewExporter(videos store.VideoStore, uploader ObjectUploader, prefix string, logger log.Logger) *Exporter {
	return &Exporter{
		videos:   videos,
		uploader: uploader,
		prefix:   prefix,
		now:      time.Now,
		log:      log.NewHelper(log.With(logger, "module", "export")),
	}
}

// Run reads every video and uploads them as one object named
// <prefix>videos-<UTC timestamp>.json.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	records, err := e.videos.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("export: list videos: %w", err)
	}

	now := e.now().UTC()
	snap := Snapshot{
		ExportedAt: models.FormatTimestamp(now),
		Count:      len(records),
		Videos:     make([]models.PersistedVideo, 0, len(records)),
	}
	for _, r := range records {
		snap.Videos = append(snap.Videos, models.NewPersistedVideo(r))
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("export: encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%svideos-%s.json", e.prefix, now.Format("20060102T150405Z"))
	location, err := e.uploader.Upload(ctx, key, &buf)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	e.log.WithContext(ctx).Infof("snapshot exported: key=%s count=%d", key, snap.Count)
	return &Result{Key: key, Location: location, Count: snap.Count}, nil
}
