package analyzer

import (
	"context"
	"fmt"
	"strings"

	"focusd/internal/llm"
	"focusd/internal/logging"
	"focusd/internal/session"
)

// FallbackQuestion is emitted when the oracle is unavailable or returns
// something unusable, so contextualization degrades instead of failing.
const FallbackQuestion = "What are you trying to accomplish?"

// doneToken is the oracle's signal that enough context has been gathered.
const doneToken = "DONE"

// QuestionGenerator drives the contextualization dialogue: one question at a
// time, with the oracle deciding when the task and its goal are understood.
type QuestionGenerator struct {
	oracle llm.Client
	logger logging.Logger
}

// NewQuestionGenerator creates a question generator backed by an oracle.
func NewQuestionGenerator(oracle llm.Client) *QuestionGenerator {
	return &QuestionGenerator{
		oracle: oracle,
		logger: logging.NewComponentLogger("questions"),
	}
}

// NextQuestion returns the next question for the dialogue, or done=true when
// the oracle judges the context complete. With no prior history it asks for
// a first task-identifying question; afterwards it asks the oracle to either
// emit exactly DONE or one follow-up. Oracle failures yield the fixed
// fallback question, never an error.
func (g *QuestionGenerator) NextQuestion(ctx context.Context, domain string, history []session.QA) (question string, done bool) {
	var prompt string
	if len(history) == 0 {
		prompt = firstQuestionPrompt(domain)
	} else {
		prompt = followupPrompt(domain, history)
	}

	response, err := g.oracle.Complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("oracle failed generating question for domain %s: %v", domain, err)
		return FallbackQuestion, false
	}

	response = strings.TrimSpace(response)
	if response == "" {
		g.logger.Warn("oracle returned empty question for domain %s", domain)
		return FallbackQuestion, false
	}
	if strings.EqualFold(response, doneToken) {
		return "", true
	}
	return response, false
}

func firstQuestionPrompt(domain string) string {
	return fmt.Sprintf(`As a productivity assistant, ask one direct question to understand what the user is working on in the %s domain.
Keep it simple and focused on their immediate task.
Example good questions:
- What specific task are you working on?
- What are you trying to accomplish?

Respond with only the question text, no additional formatting.`, domain)
}

func followupPrompt(domain string, history []session.QA) string {
	var sb strings.Builder
	for _, qa := range history {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n", qa.Question, qa.Answer)
	}

	return fmt.Sprintf(`Based on this context about a %s task, determine if you have enough information or need to ask one more question.

Previous Q&A:
%s
First, analyze if you have enough information to understand:
1. What specific task/activity the user is doing
2. What they are trying to achieve (goal/outcome)

If you have clear answers to BOTH of these, respond with exactly 'DONE'.

If you're missing either of these key pieces of information, ask ONE focused follow-up question about what you're missing.
Do not ask about time, duration, or scheduling.
Keep the question concise and direct.

Respond with either exactly 'DONE' or your single follow-up question (no other text).`, domain, sb.String())
}
