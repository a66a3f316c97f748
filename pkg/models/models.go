package models

// VideoRecord is one row of the videos table.
type VideoRecord struct {
	ID         string `gorm:"column:id;primary_key;not null" json:"id"`
	Title      string `gorm:"column:title" json:"title"`
	Duration   string `gorm:"column:duration" json:"duration"`
	UploadedAt string `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (VideoRecord) TableName() string {
	return "videos"
}
