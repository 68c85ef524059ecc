// Package repair turns a free-form language model reply into a validated JSON record.
//
// The model is asked for a JSON object but routinely answers with prose around it,
// unquoted keys, stray escapes and trailing commas. Repair applies a fixed sequence of
// textual patches and then performs a strict parse; it never panics and reports why it
// gave up when the text cannot be salvaged.
package repair

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ReasonNoJSON is reported when the reply contains no brace-delimited span.
const ReasonNoJSON = "no JSON-like content found"

const indent = "    "

var (
	reStringLiteral = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	reBareKey       = regexp.MustCompile(`([{,]\s*)([\p{L}_][\p{L}\p{N}_ \-]*?)(\s*:)`)
	reFlatArray     = regexp.MustCompile(`\[([^\[\]{}"]*)\]`)
	reBarePercent   = regexp.MustCompile(`(:\s*)(-?\d+(?:\.\d+)?\s*%)`)
	reNumber        = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)
	reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// Result is the outcome of a repair attempt. Record is nil when Reason is set.
type Result struct {
	Record *Record
	// Reason describes why no record was produced.
	Reason string
	// Candidate is the located brace span before patching.
	Candidate string
	// Repaired is the patched text that was handed to the parser.
	Repaired string
}

// OK reports whether a record was produced.
func (r Result) OK() bool {
	return r.Record != nil
}

// Repair locates the JSON object embedded in raw, patches common model mistakes and
// validates the outcome with a strict parse.
func Repair(raw string) Result {
	candidate, ok := Locate(raw)
	if !ok {
		return Result{Reason: ReasonNoJSON}
	}

	patched := quoteBareKeys(candidate)
	patched = quoteBareValues(patched)
	patched = strings.ReplaceAll(patched, `\"`, `"`)
	patched = strings.ReplaceAll(patched, `\`, "")
	patched = reTrailingComma.ReplaceAllString(patched, "$1")

	res := Result{Candidate: candidate, Repaired: patched}

	var fields map[string]any
	if err := json.Unmarshal([]byte(patched), &fields); err != nil {
		res.Reason = "decode error: " + err.Error()
		return res
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(patched), "", indent); err != nil {
		res.Reason = "decode error: " + err.Error()
		return res
	}

	res.Record = newRecord(fields, pretty.String())
	return res
}

// Locate returns the first brace-delimited span of raw. The span ends at the brace that
// balances the first '{' (ignoring braces inside string literals); when the braces never
// balance it falls back to the last '}' in the text.
func Locate(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	if end, ok := balancedEnd(raw, start); ok {
		return raw[start : end+1], true
	}
	end := strings.LastIndexByte(raw, '}')
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func balancedEnd(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// outsideStrings applies fn to every stretch of s that is not a string literal.
func outsideStrings(s string, fn func(string) string) string {
	locs := reStringLiteral.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return fn(s)
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	prev := 0
	for _, loc := range locs {
		b.WriteString(fn(s[prev:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(fn(s[prev:]))
	return b.String()
}

func quoteBareKeys(s string) string {
	return outsideStrings(s, func(part string) string {
		return reBareKey.ReplaceAllStringFunc(part, func(m string) string {
			sub := reBareKey.FindStringSubmatch(m)
			return fmt.Sprintf(`%s"%s":`, sub[1], strings.TrimSpace(sub[2]))
		})
	})
}

// quoteBareValues quotes percentages such as 80% and the items of flat arrays that are
// not JSON literals, e.g. [x, y] becomes ["x", "y"].
func quoteBareValues(s string) string {
	return outsideStrings(s, func(part string) string {
		part = reBarePercent.ReplaceAllString(part, `$1"$2"`)
		return reFlatArray.ReplaceAllStringFunc(part, func(m string) string {
			body := m[1 : len(m)-1]
			if strings.TrimSpace(body) == "" {
				return m
			}
			items := strings.Split(body, ",")
			out := make([]string, 0, len(items))
			for _, item := range items {
				item = strings.TrimSpace(item)
				if item == "" {
					continue
				}
				if isLiteral(item) {
					out = append(out, item)
					continue
				}
				out = append(out, `"`+item+`"`)
			}
			return "[" + strings.Join(out, ", ") + "]"
		})
	})
}

func isLiteral(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	return reNumber.MatchString(s)
}
