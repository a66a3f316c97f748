package models

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the ISO-8601 form stored in uploaded_at: UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Video is anything that can produce the four persisted fields.
type Video interface {
	ID() string
	Title() string
	Duration() string
	UploadedAt() string
}

type videoJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Duration   string `json:"duration"`
	UploadedAt string `json:"uploaded_at"`
}

// PersistedVideo is a video read back from storage.
type PersistedVideo struct {
	id         string
	title      string
	duration   string
	uploadedAt string
}

func NewPersistedVideo(r VideoRecord) PersistedVideo {
	return PersistedVideo{
		id:         r.ID,
		title:      r.Title,
		duration:   r.Duration,
		uploadedAt: r.UploadedAt,
	}
}

func (v PersistedVideo) ID() string         { return v.id }
func (v PersistedVideo) Title() string      { return v.title }
func (v PersistedVideo) Duration() string   { return v.duration }
func (v PersistedVideo) UploadedAt() string { return v.uploadedAt }

func (v PersistedVideo) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(v))
}

// NewVideo is a video that is about to be persisted. Its upload timestamp
// is fixed when it is constructed.
type NewVideo struct {
	id         string
	title      string
	duration   string
	uploadedAt string
}

func NewVideoAt(id, title, duration string, now time.Time) NewVideo {
	return NewVideo{
		id:         id,
		title:      title,
		duration:   duration,
		uploadedAt: FormatTimestamp(now),
	}
}

func (v NewVideo) ID() string         { return v.id }
func (v NewVideo) Title() string      { return v.title }
func (v NewVideo) Duration() string   { return v.duration }
func (v NewVideo) UploadedAt() string { return v.uploadedAt }

func (v NewVideo) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(v))
}

// ToRecord converts either variant into a row for the store.
func ToRecord(v Video) VideoRecord {
	return VideoRecord{
		ID:         v.ID(),
		Title:      v.Title(),
		Duration:   v.Duration(),
		UploadedAt: v.UploadedAt(),
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func toJSON(v Video) videoJSON {
	return videoJSON{
		ID:         v.ID(),
		Title:      v.Title(),
		Duration:   v.Duration(),
		UploadedAt: v.UploadedAt(),
	}
}
