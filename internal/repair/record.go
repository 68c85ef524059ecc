package repair

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names of the answer shape requested from the model.
const (
	FieldMatch              = "JD Match"
	FieldMissingKeywords    = "MissingKeywords"
	FieldSkillsAnalysis     = "SkillsAnalysis"
	FieldExperienceAnalysis = "ExperienceAnalysis"
	FieldEducationAnalysis  = "EducationAnalysis"
	FieldProjectAnalysis    = "ProjectAnalysis"
	FieldOverallSuitability = "OverallSuitability"
	FieldSuggestions        = "ImprovementSuggestions"
)

// Record is a repaired model answer. Missing fields stay zero valued; the full decoded
// object is kept in Fields and its indented form in Pretty.
type Record struct {
	Match                  string
	MissingKeywords        []string
	SkillsAnalysis         string
	ExperienceAnalysis     string
	EducationAnalysis      string
	ProjectAnalysis        string
	OverallSuitability     string
	ImprovementSuggestions []string

	Fields map[string]any
	Pretty string
}

func newRecord(fields map[string]any, pretty string) *Record {
	return &Record{
		Match:                  scalarString(fields[FieldMatch]),
		MissingKeywords:        stringList(fields[FieldMissingKeywords]),
		SkillsAnalysis:         scalarString(fields[FieldSkillsAnalysis]),
		ExperienceAnalysis:     scalarString(fields[FieldExperienceAnalysis]),
		EducationAnalysis:      scalarString(fields[FieldEducationAnalysis]),
		ProjectAnalysis:        scalarString(fields[FieldProjectAnalysis]),
		OverallSuitability:     scalarString(fields[FieldOverallSuitability]),
		ImprovementSuggestions: stringList(fields[FieldSuggestions]),
		Fields:                 fields,
		Pretty:                 pretty,
	}
}

// MatchPercent parses the match percentage ("80%", "80" or 80), clamped to [0,100].
// It reports false when the field is absent or not numeric.
func (r *Record) MatchPercent() (float64, bool) {
	if r == nil {
		return 0, false
	}
	raw := strings.TrimSpace(r.Match)
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	switch {
	case v < 0:
		v = 0
	case v > 100:
		v = 100
	}
	return v, true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(scalarString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	default:
		return []string{scalarString(t)}
	}
}
