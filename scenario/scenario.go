// Package scenario loads declarative selection scenarios from YAML.
//
// A scenario bundles everything one selection needs: the attribute
// schema, the producer's variants, the registered transforms, and the
// consumer's request. Scenarios drive the variantselect CLI and make
// fixtures data-driven in tests.
//
// Document shape:
//
//	producer: com.example:lib:1.0
//	schema:
//	  - name: usage
//	    compatible:
//	      java-api: [java-api-classes]
//	    precedence: [java-api, java-runtime]
//	variants:
//	  - name: apiElements
//	    attributes: {usage: java-api}
//	    artifacts:
//	      - name: lib-1.0.jar
//	        type: jar
//	transforms:
//	  - action: unzip
//	    from: {format: jar}
//	    to: {format: classes}
//	request:
//	  attributes: {usage: java-api}
//	  allow_no_match: false
//
// YAML mappings are unordered, so attribute sets built from them use
// sorted key order. Display order in messages is therefore alphabetical
// for scenario-loaded data, and stable.
package scenario

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	variantselect "github.com/albertocavalcante/go-variantselect"
	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/transform"
)

// Document is the YAML form of a scenario.
type Document struct {
	// Producer is the producer's display name.
	Producer string `yaml:"producer"`

	// Schema declares per-attribute rules.
	Schema []AttributeSpec `yaml:"schema"`

	// Variants are the producer's variants, in document order.
	Variants []VariantSpec `yaml:"variants"`

	// Transforms are the registered transform steps, in document order.
	Transforms []TransformSpec `yaml:"transforms"`

	// Overridden are producer-level attribute overrides.
	Overridden map[string]string `yaml:"overridden_attributes"`

	// Request is the consumer's request.
	Request RequestSpec `yaml:"request"`
}

// AttributeSpec declares the rule for one attribute.
type AttributeSpec struct {
	Name string `yaml:"name"`

	// Compatible maps a requested value to additional candidate values
	// that satisfy it.
	Compatible map[string][]string `yaml:"compatible"`

	// Precedence lists values from most to least preferred.
	Precedence []string `yaml:"precedence"`
}

// VariantSpec declares one producer variant.
type VariantSpec struct {
	Name       string            `yaml:"name"`
	Attributes map[string]string `yaml:"attributes"`
	Artifacts  []ArtifactSpec    `yaml:"artifacts"`
}

// ArtifactSpec declares one artifact of a variant.
type ArtifactSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// TransformSpec declares one transform step.
type TransformSpec struct {
	Action string            `yaml:"action"`
	From   map[string]string `yaml:"from"`
	To     map[string]string `yaml:"to"`
}

// RequestSpec declares the consumer's request.
type RequestSpec struct {
	Attributes   map[string]string `yaml:"attributes"`
	AllowNoMatch bool              `yaml:"allow_no_match"`
}

// Scenario is a loaded, ready-to-run selection input.
type Scenario struct {
	// Producer is the producer variant set, including its schema.
	Producer *variantselect.ResolvedVariantSet

	// Registry is the frozen transform registry.
	Registry *transform.Registry

	// Requested are the consumer's requested attributes.
	Requested attr.Set

	// AllowNoMatch permits an empty result.
	AllowNoMatch bool
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse builds a Scenario from YAML content.
func Parse(data []byte) (*Scenario, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return doc.Build()
}

// Build converts the document into runnable selection inputs.
func (d *Document) Build() (*Scenario, error) {
	if len(d.Variants) == 0 {
		return nil, fmt.Errorf("scenario declares no variants")
	}

	schema := attr.NewSchema()
	for _, spec := range d.Schema {
		if spec.Name == "" {
			return nil, fmt.Errorf("schema entry is missing a name")
		}
		schema.SetRule(attr.StringKey(spec.Name), attr.StaticRule{
			Compat: spec.Compatible,
			Order:  spec.Precedence,
		})
	}

	variants := make([]*variantselect.ResolvedVariant, len(d.Variants))
	for i, spec := range d.Variants {
		if spec.Name == "" {
			return nil, fmt.Errorf("variant %d is missing a name", i)
		}
		artifacts := make([]variantselect.Artifact, len(spec.Artifacts))
		for j, a := range spec.Artifacts {
			artifacts[j] = variantselect.Artifact{Name: a.Name, Type: a.Type}
		}
		variants[i] = &variantselect.ResolvedVariant{
			Name:       spec.Name,
			Attributes: setFrom(spec.Attributes),
			Artifacts:  artifacts,
		}
	}

	var builder transform.RegistryBuilder
	for i, spec := range d.Transforms {
		if spec.Action == "" {
			return nil, fmt.Errorf("transform %d is missing an action", i)
		}
		builder.Register(spec.Action, setFrom(spec.From), setFrom(spec.To))
	}

	producerName := d.Producer
	if producerName == "" {
		producerName = "<producer>"
	}

	return &Scenario{
		Producer: &variantselect.ResolvedVariantSet{
			Name:                 producerName,
			Schema:               schema,
			Variants:             variants,
			OverriddenAttributes: setFrom(d.Overridden),
		},
		Registry:     builder.Build(),
		Requested:    setFrom(d.Request.Attributes),
		AllowNoMatch: d.Request.AllowNoMatch,
	}, nil
}

// setFrom builds an attribute set from a YAML mapping, in sorted key
// order for determinism.
func setFrom(m map[string]string) attr.Set {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	var set attr.Set
	for _, name := range names {
		set = set.With(attr.StringKey(name), m[name])
	}
	return set
}
