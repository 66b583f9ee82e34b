package openapi

import (
	"errors"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func TestSchemaRegistryTwoPhaseResolution(t *testing.T) {
	t.Parallel()

	reg := NewSchemaRegistry()
	if err := reg.Register("Leaf", openapi3.NewStringSchema().NewRef()); err != nil {
		t.Fatalf("register: %v", err)
	}

	resolved := false
	err := reg.RegisterDeferred("Tree", func() (*openapi3.SchemaRef, error) {
		resolved = true
		leaf, err := reg.Ref("Leaf")
		if err != nil {
			return nil, err
		}
		return openapi3.NewObjectSchema().WithPropertyRef("leaf", leaf).NewRef(), nil
	})
	if err != nil {
		t.Fatalf("register deferred: %v", err)
	}
	if resolved {
		t.Fatalf("deferred provider ran before Resolve")
	}

	if _, err := reg.Ref("Tree"); !errors.Is(err, ErrSchemaNotRegistered) {
		t.Fatalf("pending ref error = %v, want ErrSchemaNotRegistered", err)
	}

	if err := reg.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved {
		t.Fatalf("provider did not run")
	}

	ref, err := reg.Ref("Tree")
	if err != nil {
		t.Fatalf("ref after resolve: %v", err)
	}
	if ref.Ref != "#/components/schemas/Tree" {
		t.Fatalf("ref = %q", ref.Ref)
	}
	if ref.Value == nil {
		t.Fatalf("ref does not carry the resolved value")
	}
}

func TestSchemaRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	reg := NewSchemaRegistry()
	if err := reg.Register("A", openapi3.NewStringSchema().NewRef()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := reg.Register("A", openapi3.NewStringSchema().NewRef()); !errors.Is(err, ErrSchemaDuplicate) {
		t.Fatalf("duplicate register error = %v, want ErrSchemaDuplicate", err)
	}
	err := reg.RegisterDeferred("A", func() (*openapi3.SchemaRef, error) {
		return openapi3.NewStringSchema().NewRef(), nil
	})
	if !errors.Is(err, ErrSchemaDuplicate) {
		t.Fatalf("duplicate deferred error = %v, want ErrSchemaDuplicate", err)
	}
}

func TestSchemaRegistryUnknownRef(t *testing.T) {
	t.Parallel()

	reg := NewSchemaRegistry()
	if _, err := reg.Ref("Ghost"); !errors.Is(err, ErrSchemaNotRegistered) {
		t.Fatalf("error = %v, want ErrSchemaNotRegistered", err)
	}
}

func TestSchemaRegistryResolveAbortsOnFirstError(t *testing.T) {
	t.Parallel()

	reg := NewSchemaRegistry()

	boom := errors.New("boom")
	if err := reg.RegisterDeferred("Bad", func() (*openapi3.SchemaRef, error) {
		return nil, boom
	}); err != nil {
		t.Fatalf("register deferred: %v", err)
	}
	laterRan := false
	if err := reg.RegisterDeferred("Later", func() (*openapi3.SchemaRef, error) {
		laterRan = true
		return openapi3.NewStringSchema().NewRef(), nil
	}); err != nil {
		t.Fatalf("register deferred: %v", err)
	}

	err := reg.Resolve()
	if !errors.Is(err, boom) {
		t.Fatalf("resolve error = %v, want the provider error wrapped", err)
	}
	if !strings.Contains(err.Error(), "Bad") {
		t.Fatalf("error %q does not name the failing schema", err)
	}
	if laterRan {
		t.Fatalf("resolution continued past the first failure")
	}

	if _, err := reg.Ref("Bad"); err == nil {
		t.Fatalf("failed schema should stay unreferencable")
	}
}
