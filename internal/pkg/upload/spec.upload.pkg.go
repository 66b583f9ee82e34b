package upload

import (
	"errors"
	"fmt"
	"regexp"
	"uploadkit-go/internal/pkg/helper"
)

// FieldSpec declares the expectation for one multipart field: how many files
// it takes and what each file must look like. Size bounds are human strings
// ("5MB", "200KB") or bare byte counts; empty means unbounded. MimeTypes are
// exact literals, MimePatterns are matched as authored.
type FieldSpec struct {
	Name         string
	IsArray      bool
	Required     bool
	MinSize      string
	MaxSize      string
	MinFiles     int
	MaxFiles     int
	MimeTypes    []string
	MimePatterns []*regexp.Regexp
}

// Field is a compiled FieldSpec. Size bounds are bytes, 0 = unbounded.
type Field struct {
	Name     string
	IsArray  bool
	Required bool
	MinSize  int64
	MaxSize  int64
	MinFiles int
	MaxFiles int

	matchers []*regexp.Regexp
	allowed  []string
}

// Fields is a compiled spec set for one handler, in declaration order.
type Fields struct {
	fields []Field
}

// Compile validates and normalizes the given specs. Any configuration
// problem is reported here, before the first request, never per-request.
func Compile(specs []FieldSpec) (*Fields, error) {
	seen := make(map[string]bool, len(specs))
	fields := make([]Field, 0, len(specs))

	for _, spec := range specs {
		field, err := compileField(spec)
		if err != nil {
			return nil, err
		}
		if seen[field.Name] {
			return nil, fmt.Errorf("duplicate upload field: %s", field.Name)
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}

	return &Fields{fields: fields}, nil
}

// MustCompile is Compile for package-level field sets wired at startup.
func MustCompile(specs []FieldSpec) *Fields {
	fields, err := Compile(specs)
	if err != nil {
		panic(err)
	}
	return fields
}

func compileField(spec FieldSpec) (Field, error) {
	if spec.Name == "" {
		return Field{}, errors.New("upload field name is empty")
	}

	if spec.MinFiles < 0 || spec.MaxFiles < 0 {
		return Field{}, fmt.Errorf("negative file count bound for field: %s", spec.Name)
	}
	if spec.MaxFiles > 0 && spec.MinFiles > spec.MaxFiles {
		return Field{}, fmt.Errorf("min files exceeds max files for field: %s", spec.Name)
	}

	field := Field{
		Name:     spec.Name,
		IsArray:  spec.IsArray,
		Required: spec.Required,
		MinFiles: spec.MinFiles,
		MaxFiles: spec.MaxFiles,
	}

	var err error
	if field.MinSize, err = parseSizeBound(spec.MinSize, spec.Name); err != nil {
		return Field{}, err
	}
	if field.MaxSize, err = parseSizeBound(spec.MaxSize, spec.Name); err != nil {
		return Field{}, err
	}
	if field.MaxSize > 0 && field.MinSize > field.MaxSize {
		return Field{}, fmt.Errorf("min size exceeds max size for field: %s", spec.Name)
	}

	for _, mime := range spec.MimeTypes {
		matcher, err := regexp.Compile("^" + regexp.QuoteMeta(mime) + "$")
		if err != nil {
			return Field{}, fmt.Errorf("invalid mime type %q for field %s: %w", mime, spec.Name, err)
		}
		field.matchers = append(field.matchers, matcher)
		field.allowed = append(field.allowed, mime)
	}
	for _, pattern := range spec.MimePatterns {
		if pattern == nil {
			return Field{}, fmt.Errorf("nil mime pattern for field: %s", spec.Name)
		}
		field.matchers = append(field.matchers, pattern)
		field.allowed = append(field.allowed, pattern.String())
	}

	return field, nil
}

func parseSizeBound(s, name string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	size, err := helper.ParseSize(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size bound %q for field %s: %w", s, name, err)
	}
	return size, nil
}

// Specs returns the compiled fields in declaration order, for schema
// emission and introspection.
func (fs *Fields) Specs() []Field {
	out := make([]Field, len(fs.fields))
	copy(out, fs.fields)
	return out
}

// Allowed lists the field's MIME constraints as declared: literal types
// first, then pattern sources. Empty means any type is accepted.
func (f Field) Allowed() []string {
	if len(f.allowed) == 0 {
		return nil
	}
	out := make([]string, len(f.allowed))
	copy(out, f.allowed)
	return out
}

// MatchesMime reports whether the given MIME type satisfies the field's
// constraints. A field without constraints accepts every type.
func (f Field) MatchesMime(mimeType string) bool {
	if len(f.matchers) == 0 {
		return true
	}
	for _, matcher := range f.matchers {
		if matcher.MatchString(mimeType) {
			return true
		}
	}
	return false
}
