package story

import (
	"fmt"
	"strings"
)

// QuestionCount is the fixed number of comprehension questions per passage.
const QuestionCount = 2

// Length selects how many sentences the generated passage has.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Sentences returns the exact sentence count for this length.
func (l Length) Sentences() int {
	switch l {
	case LengthShort:
		return 4
	case LengthMedium:
		return 6
	case LengthLong:
		return 8
	default:
		return 0
	}
}

// Config is the reader's setup for one session. Set once at configuration
// time and immutable until a new session starts.
type Config struct {
	// GradeLevel is the reading level, e.g. "2nd grade".
	GradeLevel string

	// Length selects the passage length (short/medium/long).
	Length Length

	// TopicArea is an optional subject suggestion. Empty lets the model pick.
	TopicArea string
}

// Validate checks that the required selections were made.
func (c Config) Validate() error {
	if strings.TrimSpace(c.GradeLevel) == "" {
		return fmt.Errorf("grade level is required")
	}
	if c.Length.Sentences() == 0 {
		return fmt.Errorf("unknown story length: %q", c.Length)
	}
	return nil
}

// Question is one comprehension question paired with a description of
// what a correct answer should include. Immutable once created.
type Question struct {
	Text           string
	ExpectedAnswer string
}

// Material is a generated passage with its topic and questions.
// Read-only after generation; replaced wholesale when a new story is made.
type Material struct {
	Topic     string
	Passage   string
	Questions [QuestionCount]Question
}
