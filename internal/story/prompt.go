package story

import (
	"fmt"
	"strings"
)

// systemPrompt sets the generation role. The grade level is interpolated so
// vocabulary stays age-appropriate.
func systemPrompt(gradeLevel string) string {
	return fmt.Sprintf("You are a helpful assistant creating reading comprehension content for children at the %s reading level.", gradeLevel)
}

// buildUserMessage constructs the generation prompt from the session config
// and the recently used topics to avoid.
func buildUserMessage(cfg Config, recentTopics []string) string {
	sentenceCount := cfg.Length.Sentences()

	topicText := ""
	if cfg.TopicArea != "" {
		topicText = fmt.Sprintf(" about %s", cfg.TopicArea)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Create a %s reading passage (exactly %d sentences)%s appropriate for a child at the %s reading level.",
		cfg.Length, sentenceCount, topicText, cfg.GradeLevel)

	if len(recentTopics) > 0 {
		fmt.Fprintf(&b, "\n\nIMPORTANT: Do NOT create a story about any of these recently used topics: %s. Choose a completely different subject to keep things fresh and interesting!",
			strings.Join(recentTopics, ", "))
	}

	fmt.Fprintf(&b, `

IMPORTANT RULES:
1. The passage must be about ONE single topic or subject. All %d sentences should be related and tell a coherent story or provide related facts about the same thing. Do NOT mix multiple unrelated topics or animals.

2. Create %d comprehension questions that can ONLY be answered by reading the passage. The answer to each question MUST be explicitly stated in the passage text. Do NOT ask questions about information that isn't in the passage.

For example:
- Good passage topic: All sentences about elephants
- Good passage topic: All sentences about a boy going to the park
- Bad passage topic: Mixing octopuses, flamingos, and kangaroos

- Good question: "How much can elephants weigh?" (if passage says "Elephants can weigh up to 14,000 pounds")
- Bad question: "What is the average weight of an elephant?" (if passage only mentions maximum weight)

Make sure:
- The passage is exactly %d sentences
- Uses vocabulary appropriate for %s
- Stays on ONE topic throughout
- Questions can be answered DIRECTLY from the passage text
- Questions test basic comprehension (who, what, where, when, why, how)`,
		sentenceCount, QuestionCount, sentenceCount, cfg.GradeLevel)

	return b.String()
}
