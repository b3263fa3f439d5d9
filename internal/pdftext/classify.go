package pdftext

import (
	"regexp"
	"strings"
)

// SentenceKind is the flavour of question a sentence lends itself to.
type SentenceKind string

const (
	KindDefinition SentenceKind = "definition"
	KindProcess    SentenceKind = "process"
	KindComparison SentenceKind = "comparison"
	KindExample    SentenceKind = "example"
	KindImportance SentenceKind = "importance"
)

// Checked in order; the first hit wins.
var kindPatterns = []struct {
	kind    SentenceKind
	pattern *regexp.Regexp
}{
	{KindDefinition, regexp.MustCompile(`\bis\s+an?\b|\bare\s+an?\b|\brefers\s+to\b|\bdefined\s+as\b`)},
	{KindProcess, regexp.MustCompile(`\bsteps\b|\bprocess\b|\bprocedure\b|\bmethod\b|\bhow\s+to\b`)},
	{KindComparison, regexp.MustCompile(`\bcompared\b|\bversus\b|\bdifferent\b|\bsimilar\s+to\b|\bwhile\b`)},
	{KindExample, regexp.MustCompile(`\bexample\b|\binstance\b|\bsuch\s+as\b|\blike\b|\bcase\b`)},
	{KindImportance, regexp.MustCompile(`\bimportant\b|\bsignificant\b|\bcrucial\b|\bkey\b|\bessential\b`)},
}

var (
	subjectPattern    = regexp.MustCompile(`^(.*?)\s+(?:is|are|refers)\b`)
	comparisonSplit   = regexp.MustCompile(`\s+(?:compared|versus|and)\s+`)
	edgePunctuation   = regexp.MustCompile(`^\W+|\W+$`)
	comparisonKeyword = regexp.MustCompile(`\bcompared\b|\bversus\b`)
)

// ClassifySentence guesses what kind of question a sentence supports.
// Sentences matching nothing are treated as definitions.
func ClassifySentence(sentence string) SentenceKind {
	lower := strings.ToLower(sentence)
	for _, kp := range kindPatterns {
		if kp.pattern.MatchString(lower) {
			return kp.kind
		}
	}
	return KindDefinition
}

// KeyConcepts pulls the subject of a sentence ("concept"), or both sides of a
// comparison ("concept1", "concept2"). It falls back to the first clause.
func KeyConcepts(sentence string) map[string]string {
	concepts := map[string]string{}
	lower := strings.ToLower(sentence)

	if m := subjectPattern.FindStringSubmatch(lower); m != nil && strings.TrimSpace(m[1]) != "" {
		concepts["concept"] = strings.TrimSpace(m[1])
	}

	if comparisonKeyword.MatchString(lower) {
		parts := comparisonSplit.Split(lower, -1)
		if len(parts) >= 2 {
			concepts["concept1"] = strings.TrimSpace(parts[0])
			concepts["concept2"] = strings.TrimSpace(parts[1])
		}
	}

	if len(concepts) == 0 {
		first := strings.SplitN(sentence, ",", 2)[0]
		concepts["concept"] = edgePunctuation.ReplaceAllString(first, "")
	}
	return concepts
}

// FocusConcepts returns up to limit distinct subjects from the definition-like
// sentences of text, used to steer prompts toward the material's core terms.
func FocusConcepts(text string, limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, sentence := range SplitSentences(text) {
		if len(out) >= limit {
			break
		}
		if ClassifySentence(sentence) != KindDefinition {
			continue
		}
		concept := KeyConcepts(sentence)["concept"]
		if concept == "" || len(concept) > 60 || seen[concept] {
			continue
		}
		seen[concept] = true
		out = append(out, concept)
	}
	return out
}
