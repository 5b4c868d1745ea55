package util

const (
	DateFormat       = "2006-01-02"
	ExportDateFormat = "02-01-2006"
	ChartTimeFormat  = "02 Jan 15:04"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"

	// UploadsURLPrefix is where locally stored files are served.
	UploadsURLPrefix = "/uploads/"
)

const (
	MimeImage = "image/"
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
)

// NoAttempt is shown in exports for students without any score.
const NoAttempt = "-"
