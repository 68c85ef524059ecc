package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPercent(t *testing.T) {
	tests := []struct {
		name   string
		match  any
		want   float64
		wantOK bool
	}{
		{name: "percent string", match: "80%", want: 80, wantOK: true},
		{name: "spaced decimal", match: " 72.5 % ", want: 72.5, wantOK: true},
		{name: "plain number", match: float64(64), want: 64, wantOK: true},
		{name: "clamped high", match: "150%", want: 100, wantOK: true},
		{name: "clamped low", match: "-5", want: 0, wantOK: true},
		{name: "range", match: "70-80%", wantOK: false},
		{name: "word", match: "percentage", wantOK: false},
		{name: "nan", match: "NaN", wantOK: false},
		{name: "absent", match: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecord(map[string]any{FieldMatch: tt.match}, "{}")
			got, ok := rec.MatchPercent()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchPercentNilRecord(t *testing.T) {
	var rec *Record
	_, ok := rec.MatchPercent()
	assert.False(t, ok)
}

func TestStringListAcceptsLooseShapes(t *testing.T) {
	assert.Equal(t, []string{"docker"}, stringList("docker"))
	assert.Equal(t, []string{"a", "3"}, stringList([]any{"a", " ", float64(3)}))
	assert.Nil(t, stringList(nil))
	assert.Nil(t, stringList("  "))
}
