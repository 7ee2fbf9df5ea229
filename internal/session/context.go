package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QA is one question/answer pair gathered during contextualization.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TaskContext is the ordered question→answer mapping accumulated while
// contextualizing a task. Entries are never silently overwritten within one
// session; a new contextualization round replaces the whole context.
type TaskContext struct {
	pairs []QA
	index map[string]int
}

// NewTaskContext returns an empty task context.
func NewTaskContext() *TaskContext {
	return &TaskContext{index: map[string]int{}}
}

// Add appends a question/answer pair. Empty questions and duplicate
// questions are rejected.
func (tc *TaskContext) Add(question, answer string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if tc.index == nil {
		tc.index = map[string]int{}
	}
	if _, exists := tc.index[question]; exists {
		return fmt.Errorf("question already answered: %s", question)
	}
	tc.index[question] = len(tc.pairs)
	tc.pairs = append(tc.pairs, QA{Question: question, Answer: answer})
	return nil
}

// Pairs returns the ordered question/answer pairs.
func (tc *TaskContext) Pairs() []QA {
	if tc == nil {
		return nil
	}
	out := make([]QA, len(tc.pairs))
	copy(out, tc.pairs)
	return out
}

// Answers returns the answer strings in insertion order.
func (tc *TaskContext) Answers() []string {
	if tc == nil {
		return nil
	}
	out := make([]string, 0, len(tc.pairs))
	for _, qa := range tc.pairs {
		out = append(out, qa.Answer)
	}
	return out
}

// Len returns the number of stored pairs.
func (tc *TaskContext) Len() int {
	if tc == nil {
		return 0
	}
	return len(tc.pairs)
}

// Empty reports whether no pairs have been gathered.
func (tc *TaskContext) Empty() bool {
	return tc.Len() == 0
}

// MarshalJSON serializes the context as a question→answer object, which is
// what the extension stores and sends back.
func (tc *TaskContext) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, tc.Len())
	for _, qa := range tc.Pairs() {
		m[qa.Question] = qa.Answer
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts either an ordered array of {question, answer} pairs
// or a direct question→answer object.
func (tc *TaskContext) UnmarshalJSON(data []byte) error {
	tc.pairs = nil
	tc.index = map[string]int{}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var pairs []QA
		if err := json.Unmarshal(data, &pairs); err != nil {
			return err
		}
		for _, qa := range pairs {
			if strings.TrimSpace(qa.Question) == "" || qa.Answer == "" {
				continue
			}
			if err := tc.Add(qa.Question, qa.Answer); err != nil {
				// Duplicate questions in the payload: first one wins.
				continue
			}
		}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for question, answer := range m {
		if strings.TrimSpace(question) == "" {
			continue
		}
		_ = tc.Add(question, answer)
	}
	return nil
}
