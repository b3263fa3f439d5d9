package study

import (
	"fmt"
	"strings"
)

// Mode is a study mode. It decides how many questions a document gets and
// which flavour of prompt produces them.
type Mode string

const (
	QuickReview Mode = "QUICK_REVIEW"
	DeepStudy   Mode = "DEEP_STUDY"
	Revision    Mode = "REVISION"
	TestPrep    Mode = "TEST_PREP"
)

type modeInfo struct {
	short  string
	label  string
	count  int
	prompt string
}

var modes = map[Mode]modeInfo{
	QuickReview: {
		short: "quick", label: "Quick Review", count: 3,
		prompt: "Create %d quick review questions that test basic understanding. Focus on definitions and key concepts.",
	},
	DeepStudy: {
		short: "deep", label: "Deep Study", count: 5,
		prompt: "Create %d in-depth questions that require detailed understanding. Include analysis and application questions.",
	},
	Revision: {
		short: "revision", label: "Revision", count: 5,
		prompt: "Create %d revision questions that help reinforce learning. Mix recall with understanding questions.",
	},
	TestPrep: {
		short: "test", label: "Test Prep", count: 5,
		prompt: "Create %d exam-style questions that simulate test conditions. Include higher-order thinking questions.",
	},
}

// AllModes lists the modes in display order.
var AllModes = []Mode{QuickReview, DeepStudy, Revision, TestPrep}

// ParseMode accepts the canonical key (QUICK_REVIEW), any casing of it, or the
// short form (quick).
func ParseMode(s string) (Mode, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if _, ok := modes[Mode(key)]; ok {
		return Mode(key), nil
	}
	for m, info := range modes {
		if strings.EqualFold(info.short, key) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown study mode %q", s)
}

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	_, ok := modes[m]
	return ok
}

// DefaultCount is the number of questions generated for m on upload.
func (m Mode) DefaultCount() int { return modes[m].count }

// Short is the lower-case short name, e.g. "quick".
func (m Mode) Short() string { return modes[m].short }

// Label is the human readable name, e.g. "Quick Review".
func (m Mode) Label() string { return modes[m].label }

func (m Mode) instruction(n int) string {
	info, ok := modes[m]
	if !ok {
		info = modes[QuickReview]
	}
	return fmt.Sprintf(info.prompt, n)
}
