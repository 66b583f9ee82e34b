package upload

import (
	"errors"
	"strings"
	"testing"
	_type "uploadkit-go/internal/common/type"
)

func testFile(name string, size int64, mimeType string) _type.BufferedFile {
	return _type.BufferedFile{
		OriginalName: name,
		Encoding:     "7bit",
		MimeType:     mimeType,
		Size:         size,
		Buffer:       []byte("x"),
	}
}

func TestValidateRequiredFieldMissing(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{{Name: "avatar", Required: true}})

	_, err := fields.Validate(_type.BufferedFiles{})
	if !errors.Is(err, ErrNoFilesUploaded) {
		t.Fatalf("error = %v, want ErrNoFilesUploaded", err)
	}
	if !strings.Contains(err.Error(), "avatar") {
		t.Fatalf("error %q does not name the field", err)
	}
}

func TestValidateOptionalFieldsAbsent(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{
		{Name: "cover"},
		{Name: "gallery", IsArray: true},
	})

	files, err := fields.Validate(_type.BufferedFiles{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if _, ok := files["cover"]; ok {
		t.Fatalf("expected no entry for an absent scalar field")
	}
	list, ok := files["gallery"].([]_type.BufferedFile)
	if !ok {
		t.Fatalf("expected an empty slice entry for an absent array field, got %T", files["gallery"])
	}
	if len(list) != 0 {
		t.Fatalf("expected empty gallery, got %d files", len(list))
	}
}

func TestValidateScalarKeepsFirstFile(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{{Name: "cover"}})

	files, err := fields.Validate(_type.BufferedFiles{
		"cover": {testFile("a.png", 10, "image/png"), testFile("b.png", 20, "image/png")},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	got, ok := files.File("cover")
	if !ok {
		t.Fatalf("cover missing from result")
	}
	if got.OriginalName != "a.png" {
		t.Fatalf("kept %q, want the first file a.png", got.OriginalName)
	}
}

func TestValidateArrayCardinality(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{{Name: "gallery", IsArray: true, MinFiles: 2, MaxFiles: 3}})

	_, err := fields.Validate(_type.BufferedFiles{
		"gallery": {testFile("a.png", 1, "image/png")},
	})
	if !errors.Is(err, ErrTooFewFiles) {
		t.Fatalf("error = %v, want ErrTooFewFiles", err)
	}

	_, err = fields.Validate(_type.BufferedFiles{
		"gallery": {
			testFile("a.png", 1, "image/png"),
			testFile("b.png", 1, "image/png"),
			testFile("c.png", 1, "image/png"),
			testFile("d.png", 1, "image/png"),
		},
	})
	if !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("error = %v, want ErrTooManyFiles", err)
	}
}

func TestValidateSizeBoundsAreInclusive(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{{Name: "doc", MinSize: "1KB", MaxSize: "2KB"}})

	for _, size := range []int64{1024, 1536, 2048} {
		if _, err := fields.Validate(_type.BufferedFiles{
			"doc": {testFile("d.pdf", size, "application/pdf")},
		}); err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
	}

	_, err := fields.Validate(_type.BufferedFiles{
		"doc": {testFile("d.pdf", 1023, "application/pdf")},
	})
	if !errors.Is(err, ErrFileTooSmall) {
		t.Fatalf("error = %v, want ErrFileTooSmall", err)
	}

	_, err = fields.Validate(_type.BufferedFiles{
		"doc": {testFile("d.pdf", 2049, "application/pdf")},
	})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("error = %v, want ErrFileTooLarge", err)
	}
}

func TestValidateRejectsUndeclaredMime(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{{Name: "doc", MimeTypes: []string{"application/pdf", "text/plain"}}})

	_, err := fields.Validate(_type.BufferedFiles{
		"doc": {testFile("x.bin", 1, "application/octet-stream")},
	})
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("error = %v, want ErrInvalidFileType", err)
	}
	if !strings.Contains(err.Error(), "application/pdf, text/plain") {
		t.Fatalf("error %q does not list the allowed types", err)
	}
}

func TestValidateStopsAtFirstViolationInDeclarationOrder(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{
		{Name: "first", Required: true},
		{Name: "second", Required: true},
	})

	_, err := fields.Validate(_type.BufferedFiles{})
	if err == nil || !strings.Contains(err.Error(), "first") {
		t.Fatalf("error = %v, want the first declared field reported", err)
	}
}

func TestValidateChecksSizeBeforeMime(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{{Name: "doc", MaxSize: "1KB", MimeTypes: []string{"application/pdf"}}})

	_, err := fields.Validate(_type.BufferedFiles{
		"doc": {testFile("x.bin", 4096, "application/octet-stream")},
	})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("error = %v, want the size violation reported first", err)
	}
}

func TestValidateIgnoresUndeclaredFields(t *testing.T) {
	t.Parallel()

	fields := MustCompile([]FieldSpec{{Name: "doc"}})

	files, err := fields.Validate(_type.BufferedFiles{
		"doc":   {testFile("a.pdf", 1, "application/pdf")},
		"extra": {testFile("b.bin", 1, "application/octet-stream")},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, ok := files["extra"]; ok {
		t.Fatalf("undeclared field leaked into the result")
	}
}
