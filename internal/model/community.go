package model

type Post struct {
	UUIDBase
	UserID         uint   `gorm:"index;not null" json:"userId"`
	User           *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content        string `gorm:"type:text;not null" json:"content"`
	Likes          int    `gorm:"default:0" json:"likes"`
	AuthorName     string `gorm:"size:100" json:"authorName"`
	AuthorInitials string `gorm:"size:4" json:"authorInitials"`
	AvatarColor    string `gorm:"size:16;default:'#6366f1'" json:"avatarColor"`
}

func (Post) TableName() string {
	return "posts"
}
