package document

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator holds the compiled schemas that stored documents must satisfy.
type Validator struct {
	profile *jsonschema.Schema
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Kind   string
	Issues []jsonschema.KeyError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, fmt.Sprintf("%s: %s", issue.PropertyPath, issue.Message))
	}
	return fmt.Sprintf("invalid %s document: %s", e.Kind, strings.Join(msgs, "; "))
}

func NewValidator() (*Validator, error) {
	profile, err := load("schemas/profile.json")
	if err != nil {
		return nil, err
	}

	return &Validator{profile: profile}, nil
}

// MustValidator is NewValidator for package level initialisation of the embedded schemas.
func MustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateProfile checks a serialized profile document.
func (v *Validator) ValidateProfile(ctx context.Context, doc []byte) error {
	return validate(ctx, v.profile, "profile", doc)
}

func load(name string) (*jsonschema.Schema, error) {
	b, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	return rs, nil
}

func validate(ctx context.Context, s *jsonschema.Schema, kind string, doc []byte) error {
	issues, err := s.ValidateBytes(ctx, doc)
	if err != nil {
		return fmt.Errorf("validate %s document: %w", kind, err)
	}
	if len(issues) > 0 {
		return &ValidationError{Kind: kind, Issues: issues}
	}

	return nil
}
