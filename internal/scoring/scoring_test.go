package scoring

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reNormalizedCharset = regexp.MustCompile(`^[a-z\s]*$`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "mixed case", input: "Go Developer", want: "go developer"},
		{name: "punctuation and digits", input: "C++, SQL-92 & Python3!", want: "c sql  python"},
		{name: "non ascii letters dropped", input: "Café Résumé", want: "caf rsum"},
		{name: "whitespace kept", input: "a\tb\nc", want: "a\tb\nc"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeCharsetAndIdempotence(t *testing.T) {
	inputs := []string{
		"Experienced Python developer with SQL skills",
		"{\"JD Match\": \"80%\"} 2024 — ünïcödé ☃",
		"TABS\tand\nNEWLINES\r\n",
		"1234567890!@#$%^&*()",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Regexp(t, reNormalizedCharset, once, "input %q", in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestVocabularyMatchKeepsVocabularyOrder(t *testing.T) {
	v := NewVocabulary(nil)
	got := v.Match(Normalize("SQL first, then Cloud Computing and Python"))
	assert.Equal(t, []string{"python", "sql", "cloud computing"}, got)
}

func TestVocabularyMatchIsSubsetOfVocabulary(t *testing.T) {
	v := NewVocabulary([]string{" Go ", "kubernetes", "go", ""})
	require.Equal(t, []string{"go", "kubernetes"}, v.Terms())

	got := v.Match("google kubernetes engine and terraform")
	assert.Subset(t, v.Terms(), got)
	assert.Equal(t, []string{"go", "kubernetes"}, got)
}

func TestVocabularyMatchSubstringOnly(t *testing.T) {
	v := NewVocabulary(nil)
	assert.Equal(t, []string{"java"}, v.Match("javascript"))
	assert.Empty(t, v.Match("machinelearning and dataanalysis"))
}

func TestMissingSkills(t *testing.T) {
	got := MissingSkills([]string{"python", "machine learning", "sql"}, []string{"sql", "python"})
	assert.Equal(t, []string{"machine learning"}, got)
	assert.Empty(t, MissingSkills(nil, []string{"python"}))
}

func TestSimilarityProperties(t *testing.T) {
	x := Normalize("go go rust python python python")
	y := Normalize("Python and Go services")

	assert.Equal(t, 1.0, Similarity(x, x))
	assert.Equal(t, Similarity(x, y), Similarity(y, x))
	assert.Equal(t, 0.0, Similarity("alpha beta", "gamma delta"))
	assert.Equal(t, 0.0, Similarity("", "alpha"))
	assert.Equal(t, 0.0, Similarity("   ", "\n"))
}

func TestEndToEndScenario(t *testing.T) {
	resume := Normalize("Experienced Python developer with SQL skills")
	jd := Normalize("Looking for Python and Machine Learning expertise")
	v := NewVocabulary(nil)

	resumeSkills := v.Match(resume)
	jdSkills := v.Match(jd)
	assert.Equal(t, []string{"python", "sql"}, resumeSkills)
	assert.Equal(t, []string{"python", "machine learning"}, jdSkills)
	assert.Equal(t, []string{"machine learning"}, MissingSkills(jdSkills, resumeSkills))

	sim := Similarity(resume, jd)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
	assert.InDelta(t, 0.1543, sim, 0.0001)
}
