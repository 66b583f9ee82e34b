package enum

type FileTypeEnum string

const (
	IMAGE FileTypeEnum = "image"
	VIDEO FileTypeEnum = "video"
	DOC   FileTypeEnum = "document"
	FILE  FileTypeEnum = "file"
)

func (e FileTypeEnum) ToString() string {
	switch e {
	case IMAGE:
		return "image"
	case VIDEO:
		return "video"
	case DOC:
		return "document"
	case FILE:
		return "file"
	default:
		return ""
	}
}

func (e FileTypeEnum) IsValid() bool {
	switch e {
	case IMAGE, VIDEO, DOC, FILE:
		return true
	}

	return false
}

// MimeTypes returns the literal MIME allowlist for the file class, suitable
// for upload.FieldSpec.MimeTypes. FILE accepts anything, so its list is empty.
func (e FileTypeEnum) MimeTypes() []string {
	switch e {
	case IMAGE:
		return []string{"image/jpeg", "image/png", "image/gif", "image/bmp", "image/webp", "image/tiff", "image/svg+xml", "image/x-icon", "image/heic", "image/heif"}
	case VIDEO:
		return []string{"video/mp4", "video/webm", "video/ogg", "video/avi", "video/mkv", "video/quicktime", "video/x-flv", "video/x-msvideo"}
	case DOC:
		return []string{"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "text/plain", "text/csv"}
	default:
		return nil
	}
}

// Matches reports whether the declared MIME type is in the class allowlist.
// An empty allowlist (the FILE class) matches everything.
func (e FileTypeEnum) Matches(mimeType string) bool {
	allowed := e.MimeTypes()
	if len(allowed) == 0 {
		return e.IsValid()
	}
	for _, m := range allowed {
		if m == mimeType {
			return true
		}
	}
	return false
}
