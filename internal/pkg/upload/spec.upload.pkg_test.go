package upload

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileNormalizesSizeBounds(t *testing.T) {
	t.Parallel()

	fields, err := Compile([]FieldSpec{
		{Name: "avatar", Required: true, MinSize: "1KB", MaxSize: "2.5MB", MimeTypes: []string{"image/png"}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	specs := fields.Specs()
	if len(specs) != 1 {
		t.Fatalf("expected one field, got %d", len(specs))
	}
	if specs[0].MinSize != 1024 {
		t.Fatalf("min size = %d, want 1024", specs[0].MinSize)
	}
	if specs[0].MaxSize != 2621440 {
		t.Fatalf("max size = %d, want 2621440", specs[0].MaxSize)
	}
}

func TestCompileAcceptsEmptySpecSet(t *testing.T) {
	t.Parallel()

	fields, err := Compile(nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(fields.Specs()) != 0 {
		t.Fatalf("expected no fields, got %d", len(fields.Specs()))
	}
}

func TestCompileRejectsBadSpecs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		specs []FieldSpec
		want  string
	}{
		{"empty name", []FieldSpec{{}}, "name is empty"},
		{"duplicate name", []FieldSpec{{Name: "file"}, {Name: "file"}}, "duplicate upload field"},
		{"negative count", []FieldSpec{{Name: "file", MinFiles: -1}}, "negative file count"},
		{"count bounds crossed", []FieldSpec{{Name: "file", IsArray: true, MinFiles: 3, MaxFiles: 2}}, "min files exceeds max files"},
		{"bad size", []FieldSpec{{Name: "file", MaxSize: "huge"}}, "invalid size bound"},
		{"size bounds crossed", []FieldSpec{{Name: "file", MinSize: "2MB", MaxSize: "1MB"}}, "min size exceeds max size"},
		{"nil pattern", []FieldSpec{{Name: "file", MimePatterns: []*regexp.Regexp{nil}}}, "nil mime pattern"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.specs)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Compile error = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestMustCompilePanicsOnBadSpec(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustCompile to panic")
		}
	}()
	MustCompile([]FieldSpec{{Name: ""}})
}

func TestMatchesMimeLiteralsAreAnchored(t *testing.T) {
	t.Parallel()

	field := MustCompile([]FieldSpec{{Name: "file", MimeTypes: []string{"image/png"}}}).Specs()[0]

	if !field.MatchesMime("image/png") {
		t.Fatalf("expected image/png to match")
	}
	for _, mime := range []string{"image/pngx", "ximage/png", "image/pn", "IMAGE/PNG"} {
		if field.MatchesMime(mime) {
			t.Fatalf("expected %q not to match", mime)
		}
	}
}

func TestMatchesMimeQuotesLiteralMetacharacters(t *testing.T) {
	t.Parallel()

	field := MustCompile([]FieldSpec{{Name: "file", MimeTypes: []string{"image/svg+xml"}}}).Specs()[0]

	if !field.MatchesMime("image/svg+xml") {
		t.Fatalf("expected the literal to match itself")
	}
	if field.MatchesMime("image/svggg+xml") {
		t.Fatalf("the + must not act as a quantifier")
	}
}

func TestMatchesMimePatternsAsAuthored(t *testing.T) {
	t.Parallel()

	field := MustCompile([]FieldSpec{{
		Name:         "file",
		MimePatterns: []*regexp.Regexp{regexp.MustCompile(`^image/`)},
	}}).Specs()[0]

	if !field.MatchesMime("image/webp") {
		t.Fatalf("expected image/webp to match the pattern")
	}
	if field.MatchesMime("video/mp4") {
		t.Fatalf("expected video/mp4 not to match the pattern")
	}
}

func TestMatchesMimeUnconstrainedFieldAcceptsEverything(t *testing.T) {
	t.Parallel()

	field := MustCompile([]FieldSpec{{Name: "file"}}).Specs()[0]

	if !field.MatchesMime("application/octet-stream") {
		t.Fatalf("unconstrained field rejected a type")
	}
	if !field.MatchesMime("") {
		t.Fatalf("unconstrained field rejected an empty type")
	}
}

func TestAllowedListsLiteralsThenPatterns(t *testing.T) {
	t.Parallel()

	field := MustCompile([]FieldSpec{{
		Name:         "file",
		MimeTypes:    []string{"application/pdf"},
		MimePatterns: []*regexp.Regexp{regexp.MustCompile(`^image/`)},
	}}).Specs()[0]

	want := []string{"application/pdf", "^image/"}
	if diff := cmp.Diff(want, field.Allowed()); diff != "" {
		t.Fatalf("allowed mismatch (-want +got):\n%s", diff)
	}
}
