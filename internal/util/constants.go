package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage = "image/"

	MaxAvatarSize = 5 << 20
)

var AllowedAvatarExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
