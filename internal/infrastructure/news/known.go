package news

import (
	_ "embed"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

//go:embed known_cases.yaml
var defaultKnownCases []byte

// KnownCase is a lawsuit the matcher recognises from its aliases.
type KnownCase struct {
	CaseTitle  string   `yaml:"case_title"`
	CaseNumber string   `yaml:"case_number"`
	Reason     string   `yaml:"reason"`
	Plaintiff  string   `yaml:"plaintiff"`
	Defendant  string   `yaml:"defendant"`
	Country    string   `yaml:"country"`
	Court      string   `yaml:"court"`
	Aliases    []string `yaml:"aliases"`
}

// Terms returns the normalised match terms of k: its title and aliases.
func (k KnownCase) Terms() []string {
	terms := []string{Normalize(k.CaseTitle)}
	for _, a := range k.Aliases {
		terms = append(terms, Normalize(a))
	}
	out := terms[:0]
	for _, t := range terms {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseKnownCases decodes a YAML list of known cases.
func ParseKnownCases(data []byte) ([]KnownCase, error) {
	var cases []KnownCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "known cases: invalid yaml")
	}
	return cases, nil
}

// DefaultKnownCases returns the built-in list.
func DefaultKnownCases() []KnownCase {
	cases, err := ParseKnownCases(defaultKnownCases)
	if err != nil {
		panic(err)
	}
	return cases
}

// LoadKnownCases reads path, or returns the built-in list when path is "".
func LoadKnownCases(path string) ([]KnownCase, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultKnownCases(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "known cases: read failed").WithDetail(path)
	}
	return ParseKnownCases(data)
}

// Normalize folds s for matching: NFKC, lower case, punctuation dropped and
// whitespace collapsed.  "v." and "vs." both become "v".
func Normalize(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '.' || r == ',' || r == '\'' || r == '"' || r == '’' || r == '“' || r == '”':
			// dropped
		case r == '-' || r == '–' || r == '—' || r == ':' || r == ';' || r == '(' || r == ')':
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	fields := strings.Fields(sb.String())
	for i, f := range fields {
		if f == "vs" {
			fields[i] = "v"
		}
	}
	return strings.Join(fields, " ")
}

//Personal.AI order the ending
