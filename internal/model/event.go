package model

// Event is a calendar note. DateKey is the client's day key, e.g. "2025-12-25".
type Event struct {
	BaseModel
	UserID  uint   `gorm:"uniqueIndex:idx_user_date;not null" json:"userId"`
	DateKey string `gorm:"uniqueIndex:idx_user_date;size:16;not null" json:"dateKey"`
	Title   string `gorm:"size:255;not null" json:"title"`
}

func (Event) TableName() string {
	return "events"
}
