package scoring

import "strings"

// DefaultSkills is the built-in controlled vocabulary used when none is configured.
var DefaultSkills = []string{
	"python",
	"java",
	"sql",
	"machine learning",
	"data analysis",
	"cloud computing",
}

// Vocabulary is an ordered, de-duplicated list of skill terms.
type Vocabulary struct {
	terms []string
}

// NewVocabulary lowercases and trims the given terms, dropping empties and duplicates.
// An empty input yields the default vocabulary.
func NewVocabulary(terms []string) Vocabulary {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		clean := strings.ToLower(strings.TrimSpace(t))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	if len(out) == 0 {
		return NewVocabulary(DefaultSkills)
	}
	return Vocabulary{terms: out}
}

// Terms returns a copy of the vocabulary in order.
func (v Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Match returns the vocabulary entries contained in text, in vocabulary order.
// Containment is a plain substring test, so "javascript" also matches "java".
func (v Vocabulary) Match(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, len(v.terms))
	for _, term := range v.terms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// MissingSkills returns the job skills absent from the resume skills, keeping job order.
func MissingSkills(jobSkills, resumeSkills []string) []string {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[s] = struct{}{}
	}
	missing := make([]string, 0, len(jobSkills))
	for _, s := range jobSkills {
		if _, ok := have[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}
