package upload

import (
	"errors"
	"fmt"
	"strings"
	_type "uploadkit-go/internal/common/type"
	"uploadkit-go/internal/pkg/helper"
)

var (
	ErrNoFilesUploaded = errors.New("no files uploaded")
	ErrTooFewFiles     = errors.New("too few files")
	ErrTooManyFiles    = errors.New("too many files")
	ErrFileTooSmall    = errors.New("file too small")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
)

// Files is the validated upload set keyed by field name. Array fields map to
// []types.BufferedFile (possibly empty), scalar fields to a single
// types.BufferedFile. A scalar field that received nothing has no entry.
type Files map[string]any

func (f Files) File(name string) (_type.BufferedFile, bool) {
	file, ok := f[name].(_type.BufferedFile)
	return file, ok
}

func (f Files) List(name string) []_type.BufferedFile {
	files, _ := f[name].([]_type.BufferedFile)
	return files
}

// Validate checks the received files against the compiled fields, in
// declaration order, stopping at the first violation. groups is keyed by
// form field name; keys without a declared field are ignored. File contents
// are never inspected, only the attributes the client declared.
func (fs *Fields) Validate(groups _type.BufferedFiles) (Files, error) {
	result := make(Files, len(fs.fields))

	for _, field := range fs.fields {
		files := groups[field.Name]

		if len(files) == 0 {
			if field.Required {
				return nil, fmt.Errorf("%w for field: %s", ErrNoFilesUploaded, field.Name)
			}
			if field.IsArray {
				result[field.Name] = []_type.BufferedFile{}
			}
			continue
		}

		if field.IsArray {
			if field.MinFiles > 0 && len(files) < field.MinFiles {
				return nil, fmt.Errorf("%w for field: %s (minimum %d)", ErrTooFewFiles, field.Name, field.MinFiles)
			}
			if field.MaxFiles > 0 && len(files) > field.MaxFiles {
				return nil, fmt.Errorf("%w for field: %s (maximum %d)", ErrTooManyFiles, field.Name, field.MaxFiles)
			}
		} else if len(files) > 1 {
			// A scalar field keeps the first file it received, extras are
			// dropped without error.
			files = files[:1]
		}

		for _, file := range files {
			if err := field.checkFile(file); err != nil {
				return nil, err
			}
		}

		if field.IsArray {
			result[field.Name] = files
		} else {
			result[field.Name] = files[0]
		}
	}

	return result, nil
}

func (f Field) checkFile(file _type.BufferedFile) error {
	if f.MinSize > 0 && file.Size < f.MinSize {
		return fmt.Errorf("%w: %s in field %s is %s, minimum is %s",
			ErrFileTooSmall, file.OriginalName, f.Name, helper.FormatSize(file.Size), helper.FormatSize(f.MinSize))
	}
	if f.MaxSize > 0 && file.Size > f.MaxSize {
		return fmt.Errorf("%w: %s in field %s is %s, maximum is %s",
			ErrFileTooLarge, file.OriginalName, f.Name, helper.FormatSize(file.Size), helper.FormatSize(f.MaxSize))
	}
	if !f.MatchesMime(file.MimeType) {
		return fmt.Errorf("%w: %s for field %s, allowed: %s",
			ErrInvalidFileType, file.MimeType, f.Name, strings.Join(f.allowed, ", "))
	}
	return nil
}
