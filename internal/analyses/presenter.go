package analyses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"smart-ats/internal/llm"
	"smart-ats/internal/repair"
	"smart-ats/internal/scoring"
)

const (
	ScoreBlended    = "blended"
	ScoreSimilarity = "similarity"

	FailureTransport = "transport"
	FailureRepair    = "repair"
)

// reasonUntrustedMatch is reported when the record parsed but its match percentage did not.
const reasonUntrustedMatch = "JD Match is missing or not numeric"

// Signals are the lexical scores computed before the model is consulted.
type Signals struct {
	// Similarity is the cosine similarity in [0,1].
	Similarity   float64
	ResumeSkills []string
	JobSkills    []string
}

// Failure explains why the model's answer did not contribute to the score.
type Failure struct {
	Kind         string `json:"kind"`
	Reason       string `json:"reason"`
	RepairedText string `json:"repairedText,omitempty"`
}

// Report is the presented outcome of one analysis.
type Report struct {
	FinalScore        float64         `json:"finalScore"`
	FinalScoreDisplay string          `json:"finalScoreDisplay"`
	ScoreSource       string          `json:"scoreSource"`
	Similarity        float64         `json:"similarity"`
	AIMatch           *float64        `json:"aiMatch,omitempty"`
	SkillsFound       []string        `json:"skillsFound"`
	MissingSkills     []string        `json:"missingSkills"`
	Analysis          json.RawMessage `json:"analysis,omitempty"`
	RawResponse       string          `json:"rawResponse"`
	Failure           *Failure        `json:"failure,omitempty"`
}

// Blended reports whether the model's match percentage contributed to FinalScore.
func (r Report) Blended() bool {
	return r.ScoreSource == ScoreBlended
}

// Present merges the lexical signals with the model reply. The AI match is used only when
// the reply was repaired into a record carrying a numeric percentage; otherwise the score
// is the similarity alone and no AI value is reported.
func Present(sig Signals, raw string, res repair.Result) Report {
	similarity := clampUnit(sig.Similarity) * 100
	report := Report{
		FinalScore:    similarity,
		ScoreSource:   ScoreSimilarity,
		Similarity:    similarity,
		SkillsFound:   nonNil(sig.ResumeSkills),
		MissingSkills: nonNil(scoring.MissingSkills(sig.JobSkills, sig.ResumeSkills)),
		RawResponse:   raw,
	}

	switch {
	case llm.IsErrorMarker(raw):
		report.Failure = &Failure{
			Kind:   FailureTransport,
			Reason: strings.TrimPrefix(raw, llm.ErrorMarker),
		}
	case !res.OK():
		report.Failure = &Failure{
			Kind:         FailureRepair,
			Reason:       res.Reason,
			RepairedText: res.Repaired,
		}
	default:
		report.Analysis = json.RawMessage(res.Record.Pretty)
		pct, ok := res.Record.MatchPercent()
		if !ok {
			report.Failure = &Failure{Kind: FailureRepair, Reason: reasonUntrustedMatch}
			break
		}
		report.AIMatch = &pct
		report.FinalScore = (pct + similarity) / 2
		report.ScoreSource = ScoreBlended
	}

	report.FinalScoreDisplay = formatPercent(report.FinalScore)
	return report
}

// Render writes the plain-text form of the report. The fallback block is written only
// when no repaired record is available.
func (r Report) Render(w io.Writer) error {
	p := &printer{w: w}
	p.line("Raw AI Response")
	p.line(r.RawResponse)
	p.line("")

	if len(r.Analysis) > 0 {
		p.line("Analysis Results")
		p.line("JD Match: " + r.FinalScoreDisplay)
		if !r.Blended() {
			p.line("Note: " + reasonUntrustedMatch + ", score uses similarity only")
		}
		p.line("Skills Found: " + strings.Join(r.SkillsFound, ", "))
		p.line("Missing Skills: " + strings.Join(r.MissingSkills, ", "))
		p.line("AI Analysis:")
		p.line(indentJSON(r.Analysis))
		return p.err
	}

	if r.Failure != nil {
		switch r.Failure.Kind {
		case FailureTransport:
			p.line("Error: model request failed: " + r.Failure.Reason)
		default:
			p.line("Error: unable to parse the model response: " + r.Failure.Reason)
			if r.Failure.RepairedText != "" {
				p.line("Cleaned response:")
				p.line(r.Failure.RepairedText)
			}
		}
		p.line("")
	}
	p.line("Fallback Analysis:")
	p.line("Similarity Score: " + formatPercent(r.Similarity))
	p.line("Skills Found: " + strings.Join(r.SkillsFound, ", "))
	p.line("Missing Skills: " + strings.Join(r.MissingSkills, ", "))
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
