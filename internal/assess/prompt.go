package assess

import (
	"fmt"

	"github.com/mikiheller/reading-comprehension/internal/story"
)

// systemPrompt sets the grading persona. The policy is deliberately lenient:
// the reader is a young child answering out loud.
const systemPrompt = "You are a patient and encouraging teacher assessing a 6-year-old child's reading comprehension answer. Be kind and supportive."

// buildUserMessage constructs the assessment prompt from the passage, the
// question being answered, and the child's spoken answer.
func buildUserMessage(passage string, q story.Question, spokenAnswer string) string {
	return fmt.Sprintf(`Reading passage: "%s"

Question: "%s"

Expected answer should include: "%s"

Child's spoken answer: "%s"

Assess if the child's answer demonstrates understanding of the passage. If correct, respond with encouraging praise. If incorrect, provide a gentle hint about what to look for in the passage without giving away the answer.

Keep the feedback to 1-2 sentences for a 6-year-old.

Be generous in your assessment - if the child shows basic understanding even if not perfectly articulated, mark it correct.`,
		passage, q.Text, q.ExpectedAnswer, spokenAnswer)
}
