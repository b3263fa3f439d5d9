package pdftext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSentenceLength is the number of characters a sentence needs to survive preprocessing.
const MinSentenceLength = 30

const mathSpace = "_SPACE_"

var (
	mathPattern       = regexp.MustCompile(`\$[^$]*?\$`)
	courseCodePattern = regexp.MustCompile(`\b([A-Z]{2,4})\s*[-/]?\s*(\d{3}[A-Z]?)\b`)
	bulletPattern     = regexp.MustCompile(`(?m)^[ \t]*[\x{2022}\x{2023}\x{25E6}\x{2043}\x{2219}][ \t]*`)
	listMarkerPattern = regexp.MustCompile(`(?m)^[ \t]*(\d+\.|\w+\.)[ \t]+`)
	headerPattern     = regexp.MustCompile(`(?m)^[ \t]*([A-Z][A-Za-z \t]{0,50}):[ \t]*$`)
	citationPattern   = regexp.MustCompile(`\(([A-Za-z\s]+,\s*\d{4})\)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	punctPattern      = regexp.MustCompile(`\s*([.,;:])\s*`)
	sentenceEnd       = regexp.MustCompile(`[.!?]\s+`)
	leadingCourseCode = regexp.MustCompile(`^[A-Z]{2,4}\s*\d{3}`)
)

// abbreviations are expanded in order; the patterns are case-insensitive.
var abbreviations = []struct {
	pattern *regexp.Regexp
	full    string
}{
	{regexp.MustCompile(`(?i)\bi\.e\.`), "that is"},
	{regexp.MustCompile(`(?i)\be\.g\.`), "for example"},
	{regexp.MustCompile(`(?i)\bet al\b\.?`), "and others"},
	{regexp.MustCompile(`(?i)\betc\.`), "and so on"},
	{regexp.MustCompile(`(?i)\bfig\.`), "figure"},
	{regexp.MustCompile(`(?i)\beq\.`), "equation"},
}

// Preprocess cleans raw PDF text for prompting: it keeps inline math intact,
// normalises course codes, lists, headers and citations, expands common
// academic abbreviations, and drops sentences too short to ask about.
func Preprocess(text string) string {
	text = mathPattern.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ReplaceAll(m, " ", mathSpace)
	})

	text = courseCodePattern.ReplaceAllString(text, "$1 $2")

	text = bulletPattern.ReplaceAllString(text, "• ")
	text = listMarkerPattern.ReplaceAllString(text, "${1} ")

	// A header line becomes its own sentence so it never glues onto the paragraph below.
	text = headerPattern.ReplaceAllString(text, "${1}.")

	text = citationPattern.ReplaceAllString(text, "[REF:$1]")

	for _, abbr := range abbreviations {
		text = abbr.pattern.ReplaceAllString(text, abbr.full)
	}

	text = whitespacePattern.ReplaceAllString(text, " ")
	text = fixPunctuationSpacing(text)
	text = strings.ReplaceAll(text, mathSpace, " ")

	var kept []string
	for _, sentence := range SplitSentences(text) {
		if utf8.RuneCountInString(sentence) <= MinSentenceLength {
			continue
		}
		if !leadingCourseCode.MatchString(sentence) {
			sentence = capitalize(sentence)
		}
		kept = append(kept, sentence)
	}
	return strings.Join(kept, " ")
}

// SplitSentences splits on ., ! or ? followed by whitespace, keeping the punctuation.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// fixPunctuationSpacing removes space before . , ; : and puts exactly one after,
// except between digits so decimals and times like 3.14 or 10:30 survive.
func fixPunctuationSpacing(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range punctPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		punct := text[m[2]:m[3]]
		b.WriteString(text[last:start])
		last = end

		if start == m[2] && end == m[3] && start > 0 && end < len(text) &&
			isDigit(text[start-1]) && isDigit(text[end]) {
			b.WriteString(punct)
			continue
		}
		b.WriteString(punct)
		if end < len(text) {
			b.WriteByte(' ')
		}
	}
	b.WriteString(text[last:])
	return strings.TrimSpace(b.String())
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// DetectCourseCode returns the first course code in text (e.g. "CSC 301"), or "".
func DetectCourseCode(text string) string {
	m := courseCodePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + " " + m[2]
}
