// Package seed loads the ABAC attribute catalogue, default policies and per-role default
// grants from YAML and applies them idempotently.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	validation "github.com/jellydator/validation"
	"gopkg.in/yaml.v3"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is the YAML document applied by the seeder.
type Catalog struct {
	Attributes   []AttributeSeed               `yaml:"attributes"`
	Policies     []PolicySeed                  `yaml:"policies"`
	RoleDefaults map[actorDomain.Role][]string `yaml:"role_defaults"`
}

// AttributeSeed describes one attribute.
type AttributeSeed struct {
	Name        string              `yaml:"name"`
	Category    abacDomain.Category `yaml:"category"`
	Description string              `yaml:"description"`
	Level       int                 `yaml:"level"`
}

// PolicySeed describes a policy and its rules.
type PolicySeed struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Active      bool       `yaml:"active"`
	Rules       []RuleSeed `yaml:"rules"`
}

// RuleSeed references its attribute by name.
type RuleSeed struct {
	Attribute string                `yaml:"attribute"`
	Operator  abacDomain.Operator   `yaml:"operator"`
	Value     string                `yaml:"value"`
	Action    abacDomain.RuleAction `yaml:"action"`
}

// Default returns the built-in catalogue.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalogue from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // operator supplied seed file
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open seed file")
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read seed file")
	}
	return Parse(data)
}

// Parse decodes and validates a catalogue. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid seed document: %v", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid seed document: %v", err)
	}
	return &catalog, nil
}

// Validate checks field values and that every rule and role default names a declared
// attribute.
func (c *Catalog) Validate() error {
	names := make(map[string]struct{}, len(c.Attributes))
	for i := range c.Attributes {
		a := &c.Attributes[i]
		err := validation.ValidateStruct(a,
			validation.Field(&a.Name, validation.Required, validation.Length(1, 100)),
			validation.Field(&a.Category, validation.Required, validation.By(func(any) error {
				if !a.Category.IsValid() {
					return abacDomain.ErrInvalidCategory
				}
				return nil
			})),
			validation.Field(&a.Level, validation.Min(abacDomain.MinLevel), validation.Max(abacDomain.MaxLevel)),
		)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("attribute %q declared twice", a.Name)
		}
		names[a.Name] = struct{}{}
	}

	for _, p := range c.Policies {
		if p.Name == "" {
			return fmt.Errorf("policy without a name")
		}
		for _, r := range p.Rules {
			if _, ok := names[r.Attribute]; !ok {
				return fmt.Errorf("policy %q: unknown attribute %q", p.Name, r.Attribute)
			}
			if !r.Operator.IsValid() {
				return fmt.Errorf("policy %q: unknown operator %q", p.Name, r.Operator)
			}
			if !r.Action.IsValid() {
				return fmt.Errorf("policy %q: unknown rule action %q", p.Name, r.Action)
			}
		}
	}

	for role, attrs := range c.RoleDefaults {
		if !role.IsValid() {
			return fmt.Errorf("unknown role %q", role)
		}
		for _, name := range attrs {
			if _, ok := names[name]; !ok {
				return fmt.Errorf("role %q: unknown attribute %q", role, name)
			}
		}
	}
	return nil
}
