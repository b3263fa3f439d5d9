package study

import (
	"bytes"
	"encoding/json"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	blockSeparator = regexp.MustCompile(`\n\s*\n`)

	questionField   = regexp.MustCompile(`"question":\s*"([^"]+)"`)
	typeField       = regexp.MustCompile(`"type":\s*"([^"]+)"`)
	contextField    = regexp.MustCompile(`"context":\s*"([^"]+)"`)
	difficultyField = regexp.MustCompile(`"difficulty":\s*"([^"]+)"`)
	hintField       = regexp.MustCompile(`"hint":\s*"([^"]+)"`)
	keyPointsField  = regexp.MustCompile(`(?s)"key_points":\s*\[(.*?)\]`)

	scoreField        = regexp.MustCompile(`(?i)"?score"?\s*[:=]\s*"?(\d{1,3}(?:\.\d+)?)`)
	feedbackField     = regexp.MustCompile(`"feedback":\s*"([^"]+)"`)
	strengthsField    = regexp.MustCompile(`(?s)"strengths":\s*\[(.*?)\]`)
	improvementsField = regexp.MustCompile(`(?s)"improvements":\s*\[(.*?)\]`)
	tipField          = regexp.MustCompile(`"tip":\s*"([^"]+)"`)
	leadingNumber     = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// stringList decodes either a JSON array of strings or a single string.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = splitList(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

type jsonQuestion struct {
	Question   string     `json:"question"`
	Type       string     `json:"type"`
	Context    string     `json:"context"`
	Difficulty string     `json:"difficulty"`
	Hint       string     `json:"hint"`
	KeyPoints  stringList `json:"key_points"`
}

func (j jsonQuestion) toQuestion() Question {
	q := Question{
		Question:   strings.TrimSpace(j.Question),
		Type:       strings.ToLower(strings.TrimSpace(j.Type)),
		Context:    strings.TrimSpace(j.Context),
		Difficulty: strings.ToLower(strings.TrimSpace(j.Difficulty)),
		Hint:       strings.TrimSpace(j.Hint),
		KeyPoints:  cleanList(j.KeyPoints),
	}
	q.applyDefaults()
	return q
}

// ParseQuestions turns a model reply into questions. JSON is tried first: an
// array, an object with a "questions" field, or a run of objects with prose in
// between. When no JSON question is found the reply is split on blank lines
// and each block is matched field by field.
func ParseQuestions(reply string) []Question {
	var questions []Question
	for _, raw := range jsonValues(reply) {
		questions = append(questions, questionsFromJSON(raw)...)
	}
	if len(questions) == 0 {
		log.Printf("DEBUG: No JSON questions in model reply, falling back to field matching")
		questions = parseQuestionBlocks(reply)
	}
	return lo.Filter(questions, func(q Question, _ int) bool {
		return q.Question != ""
	})
}

func questionsFromJSON(raw json.RawMessage) []Question {
	var list []jsonQuestion
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil
		}
	case '{':
		var wrapper struct {
			Questions []jsonQuestion `json:"questions"`
			jsonQuestion
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil
		}
		list = wrapper.Questions
		if len(list) == 0 {
			list = []jsonQuestion{wrapper.jsonQuestion}
		}
	}
	return lo.Map(list, func(j jsonQuestion, _ int) Question { return j.toQuestion() })
}

func parseQuestionBlocks(reply string) []Question {
	var out []Question
	for _, block := range blockSeparator.Split(reply, -1) {
		m := questionField.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		q := Question{
			Question:   strings.TrimSpace(m[1]),
			Type:       firstGroup(typeField, block),
			Context:    firstGroup(contextField, block),
			Difficulty: strings.ToLower(firstGroup(difficultyField, block)),
			Hint:       firstGroup(hintField, block),
		}
		if km := keyPointsField.FindStringSubmatch(block); km != nil {
			q.KeyPoints = splitList(km[1])
		}
		q.applyDefaults()
		out = append(out, q)
	}
	return out
}

type jsonFeedback struct {
	Score        json.RawMessage `json:"score"`
	Feedback     string          `json:"feedback"`
	Strengths    stringList      `json:"strengths"`
	Improvements stringList      `json:"improvements"`
	Tip          string          `json:"tip"`
}

// ParseFeedback turns an evaluation reply into Feedback. Missing fields get
// defaults and the score is clamped to 0..100.
func ParseFeedback(reply string) Feedback {
	fb, ok := feedbackFromJSON(reply)
	if !ok {
		fb = parseFeedbackFields(reply)
	}

	fb.Score = min(max(fb.Score, 0), 100)
	fb.Feedback = strings.TrimSpace(fb.Feedback)
	if fb.Feedback == "" {
		fb.Feedback = DefaultFeedback
	}
	fb.Tip = strings.TrimSpace(fb.Tip)
	if fb.Tip == "" {
		fb.Tip = DefaultTip
	}
	fb.Strengths = cleanList(fb.Strengths)
	fb.Improvements = cleanList(fb.Improvements)
	return fb
}

func feedbackFromJSON(text string) (Feedback, bool) {
	for _, raw := range jsonValues(text) {
		if raw[0] != '{' {
			continue
		}
		var j jsonFeedback
		if err := json.Unmarshal(raw, &j); err != nil {
			continue
		}
		if j.Score == nil && j.Feedback == "" {
			continue
		}
		return Feedback{
			Score:        parseScore(string(j.Score)),
			Feedback:     j.Feedback,
			Strengths:    j.Strengths,
			Improvements: j.Improvements,
			Tip:          j.Tip,
		}, true
	}
	return Feedback{}, false
}

func parseFeedbackFields(reply string) Feedback {
	fb := Feedback{
		Feedback: firstGroup(feedbackField, reply),
		Tip:      firstGroup(tipField, reply),
	}
	if m := scoreField.FindStringSubmatch(reply); m != nil {
		fb.Score = parseScore(m[1])
	}
	if m := strengthsField.FindStringSubmatch(reply); m != nil {
		fb.Strengths = splitList(m[1])
	}
	if m := improvementsField.FindStringSubmatch(reply); m != nil {
		fb.Improvements = splitList(m[1])
	}
	return fb
}

// parseScore reads the first number out of a raw score such as 85, "85" or "85/100".
func parseScore(raw string) int {
	m := leadingNumber.FindString(raw)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

// jsonValues returns every top-level JSON object or array embedded in text,
// skipping prose, markdown fences and malformed fragments between them.
func jsonValues(text string) []json.RawMessage {
	var out []json.RawMessage
	for i := 0; i < len(text); {
		j := strings.IndexAny(text[i:], "[{")
		if j < 0 {
			break
		}
		start := i + j
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			i = start + 1
			continue
		}
		out = append(out, raw)
		i = start + int(dec.InputOffset())
	}
	return out
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// splitList splits a comma separated list, trimming whitespace and quotes.
func splitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) []string {
	out := lo.FilterMap(items, func(item string, _ int) (string, bool) {
		item = strings.Trim(strings.TrimSpace(item), `"'`)
		item = strings.TrimSpace(item)
		return item, item != ""
	})
	if out == nil {
		return []string{}
	}
	return out
}
