package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/ats_v1.txt
var atsPromptV1 string

// BuildPrompt fills the ATS evaluation template with resume and job description text.
func BuildPrompt(resumeText, jobDescription string) string {
	replacer := strings.NewReplacer(
		"{{RESUME}}", resumeText,
		"{{JOB_DESCRIPTION}}", jobDescription,
	)
	return replacer.Replace(atsPromptV1)
}
