package ontology

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClassSpec declares a single OWL class and its single parent in the
// SUBCLASS_OF hierarchy ("" for a class rooted directly under owl:Thing).
type ClassSpec struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

// PropertySpec declares an object or data property. Properties whose Range
// is empty are treated as data properties (attributes); all others are
// object properties participating in reasoning.
type PropertySpec struct {
	Name          string `yaml:"name"`
	Domain        string `yaml:"domain,omitempty"`
	Range         string `yaml:"range,omitempty"`
	SubPropertyOf string `yaml:"sub_property_of,omitempty"`
	InverseOf     string `yaml:"inverse_of,omitempty"`
	// ChainFirst/ChainSecond declare a property chain: whenever
	// (s, ChainFirst, m) and (m, ChainSecond, o) both hold, (s, Name, o) is
	// entailed. Both must be set together or not at all.
	ChainFirst  string `yaml:"chain_first,omitempty"`
	ChainSecond string `yaml:"chain_second,omitempty"`
}

// IsDataProperty reports whether p is a data (attribute) property rather
// than an object property.
func (p PropertySpec) IsDataProperty() bool {
	return p.Range == ""
}

// SchemaSpec is the TBox: every class and property this ontology knows
// about, loaded once at startup and never mutated afterward.
type SchemaSpec struct {
	Classes    []ClassSpec    `yaml:"classes"`
	Properties []PropertySpec `yaml:"properties"`
}

// LoadSchemaSpec reads a schema declaration file (YAML) naming classes and
// properties. How the ontology schema itself is authored upstream (OWL,
// hand-written, generated) is out of scope; this is the fixed shape the
// reasoner's rule set is compiled against.
func LoadSchemaSpec(path string) (*SchemaSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema spec %s: %w", path, err)
	}
	var spec SchemaSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse schema spec %s: %w", path, err)
	}
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("validate schema spec %s: %w", path, err)
	}
	return &spec, nil
}

func (s *SchemaSpec) validate() error {
	classes := make(map[string]bool, len(s.Classes))
	for _, c := range s.Classes {
		if c.Name == "" {
			return fmt.Errorf("class with empty name")
		}
		classes[c.Name] = true
	}
	for _, c := range s.Classes {
		if c.Parent != "" && !classes[c.Parent] {
			return fmt.Errorf("class %s declares unknown parent %s", c.Name, c.Parent)
		}
	}
	for _, p := range s.Properties {
		if p.Name == "" {
			return fmt.Errorf("property with empty name")
		}
		if (p.ChainFirst == "") != (p.ChainSecond == "") {
			return fmt.Errorf("property %s: chain_first and chain_second must both be set or both empty", p.Name)
		}
	}
	return nil
}

// ClassNames returns every declared class name.
func (s *SchemaSpec) ClassNames() []string {
	out := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		out[i] = c.Name
	}
	return out
}

// HasClass reports whether name is a declared class.
func (s *SchemaSpec) HasClass(name string) bool {
	for _, c := range s.Classes {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Property looks up a declared property by name.
func (s *SchemaSpec) Property(name string) (PropertySpec, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySpec{}, false
}

// reasonerSchema is the fixed Mangle schema + rule set the OWL-DL reasoner
// is modeled with: asserted types/properties as base facts, indirect
// types/properties as their rule-derived transitive closure.
const reasonerSchema = `
Decl asserted_type(Individual, Class).
Decl subclass_of(Child, Parent).
Decl indirect_type(Individual, Class).

Decl asserted_prop(Subject, Prop, Object).
Decl subproperty_of(Child, Parent).
Decl inverse_of(PropA, PropB).
Decl prop_chain(Outer, First, Second).
Decl indirect_prop(Subject, Prop, Object).

Decl data_prop(Individual, Name, Value).

indirect_type(I, C) :- asserted_type(I, C).
indirect_type(I, P) :- indirect_type(I, C), subclass_of(C, P).

indirect_prop(S, P, O) :- asserted_prop(S, P, O).
indirect_prop(S, P, O) :- indirect_prop(S, Q, O), subproperty_of(Q, P).
indirect_prop(S, P, O) :- asserted_prop(O, Q, S), inverse_of(Q, P).
indirect_prop(S, Outer, O) :- asserted_prop(S, First, M), asserted_prop(M, Second, O), prop_chain(Outer, First, Second).
`

// schemaFacts converts the TBox declarations into the base facts the
// reasonerSchema's rules close over (subclass_of, subproperty_of,
// inverse_of, prop_chain).
func (s *SchemaSpec) schemaFacts() []schemaFact {
	var facts []schemaFact
	for _, c := range s.Classes {
		if c.Parent != "" {
			facts = append(facts, schemaFact{predicate: "subclass_of", args: []interface{}{c.Name, c.Parent}})
		}
	}
	for _, p := range s.Properties {
		if p.SubPropertyOf != "" {
			facts = append(facts, schemaFact{predicate: "subproperty_of", args: []interface{}{p.Name, p.SubPropertyOf}})
		}
		if p.InverseOf != "" {
			facts = append(facts, schemaFact{predicate: "inverse_of", args: []interface{}{p.InverseOf, p.Name}})
		}
		if p.ChainFirst != "" && p.ChainSecond != "" {
			facts = append(facts, schemaFact{predicate: "prop_chain", args: []interface{}{p.Name, p.ChainFirst, p.ChainSecond}})
		}
	}
	return facts
}

type schemaFact struct {
	predicate string
	args      []interface{}
}

// dataTypeFromPath classifies a TTL path as static or dynamic data by file
// name suffix, matching the convention instance data is organized under.
func dataTypeFromPath(path string) string {
	base := strings.ToLower(path)
	switch {
	case strings.Contains(base, "static"):
		return "static"
	case strings.Contains(base, "dynamic"):
		return "dynamic"
	default:
		return ""
	}
}
