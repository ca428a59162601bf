package story

import (
	"strings"
	"testing"
)

func TestSystemPrompt_GradeLevel(t *testing.T) {
	got := systemPrompt("2nd grade")
	if !strings.Contains(got, "2nd grade reading level") {
		t.Errorf("missing grade level: %q", got)
	}
}

func TestBuildUserMessage_SentenceCounts(t *testing.T) {
	cases := []struct {
		length Length
		want   string
	}{
		{LengthShort, "exactly 4 sentences"},
		{LengthMedium, "exactly 6 sentences"},
		{LengthLong, "exactly 8 sentences"},
	}
	for _, tc := range cases {
		msg := buildUserMessage(Config{GradeLevel: "2nd grade", Length: tc.length}, nil)
		if !strings.Contains(msg, tc.want) {
			t.Errorf("%s: missing %q", tc.length, tc.want)
		}
	}
}

func TestBuildUserMessage_TopicArea(t *testing.T) {
	msg := buildUserMessage(Config{GradeLevel: "1st grade", Length: LengthShort, TopicArea: "ocean animals"}, nil)
	if !strings.Contains(msg, "about ocean animals") {
		t.Error("missing topic area")
	}

	msg = buildUserMessage(Config{GradeLevel: "1st grade", Length: LengthShort}, nil)
	if !strings.Contains(msg, "sentences) appropriate for") {
		t.Error("unexpected topic text for empty topic area")
	}
}

func TestBuildUserMessage_RecentTopics(t *testing.T) {
	msg := buildUserMessage(Config{GradeLevel: "2nd grade", Length: LengthShort}, []string{"elephants", "butterflies"})
	if !strings.Contains(msg, "Do NOT create a story about any of these recently used topics: elephants, butterflies") {
		t.Error("missing recent-topic avoidance instruction")
	}
}

func TestBuildUserMessage_NoRecentTopics(t *testing.T) {
	msg := buildUserMessage(Config{GradeLevel: "2nd grade", Length: LengthShort}, nil)
	if strings.Contains(msg, "recently used topics") {
		t.Error("avoidance instruction should be absent for empty history")
	}
}

func TestBuildUserMessage_CoreRules(t *testing.T) {
	msg := buildUserMessage(Config{GradeLevel: "3rd grade", Length: LengthMedium}, nil)
	if !strings.Contains(msg, "ONE single topic") {
		t.Error("missing single-topic rule")
	}
	if !strings.Contains(msg, "Create 2 comprehension questions") {
		t.Error("missing question-count rule")
	}
	if !strings.Contains(msg, "vocabulary appropriate for 3rd grade") {
		t.Error("missing vocabulary rule")
	}
}
