// Package config provides policy configuration for family tree behavior.
//
// Two domain conventions are deliberately configurable rather than
// hard-coded: whether two pre-existing members may marry, and whose
// gender governs the term a relation query returns. Hosts needing
// either behavior select it by name.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarryPolicy controls marriages between two pre-existing members.
type MarryPolicy string

const (
	// MarryPermissive allows marrying two existing members. No
	// relatedness or incest validation is performed; that check is
	// outside this module's scope.
	MarryPermissive MarryPolicy = "permissive"
	// MarryStrict rejects a marriage when both parties already exist,
	// regardless of actual relatedness.
	MarryStrict MarryPolicy = "strict"
)

// TermGender selects whose gender renders the kinship term of a
// "what is A to B" query.
type TermGender string

const (
	// TermGenderTarget uses the second (queried-about) person's gender.
	TermGenderTarget TermGender = "target"
	// TermGenderSubject uses the first person's gender.
	TermGenderSubject TermGender = "subject"
)

// Policy holds the tunable domain conventions.
type Policy struct {
	MarryPolicy MarryPolicy `yaml:"marryPolicy"`
	TermGender  TermGender  `yaml:"termGender"`
}

// Default returns the documented default conventions: permissive
// marriage and target-gender terms (a relation query renders with the
// second person's gender).
func Default() Policy {
	return Policy{
		MarryPolicy: MarryPermissive,
		TermGender:  TermGenderTarget,
	}
}

// FromEnv builds a Policy from environment variables, falling back to
// defaults for unset values.
func FromEnv() Policy {
	p := Default()
	if v := os.Getenv("KINTREE_MARRY_POLICY"); v != "" {
		p.MarryPolicy = MarryPolicy(v)
	}
	if v := os.Getenv("KINTREE_TERM_GENDER"); v != "" {
		p.TermGender = TermGender(v)
	}
	return p
}

// Validate checks that both policy values are recognized.
func (p Policy) Validate() error {
	switch p.MarryPolicy {
	case MarryPermissive, MarryStrict:
	default:
		return fmt.Errorf("unknown marry policy %q", p.MarryPolicy)
	}
	switch p.TermGender {
	case TermGenderTarget, TermGenderSubject:
	default:
		return fmt.Errorf("unknown term gender source %q", p.TermGender)
	}
	return nil
}

// SaveFile writes the policy to a YAML file.
func (p Policy) SaveFile(path string) error {
	data, err := yaml.Marshal(&p)
	if err != nil {
		return fmt.Errorf("marshaling policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing policy file: %w", err)
	}
	return nil
}

// LoadFileOrDefault reads a policy from a YAML file, or returns the
// defaults if the file doesn't exist.
func LoadFileOrDefault(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parsing policy file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
