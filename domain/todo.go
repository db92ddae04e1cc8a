package domain

import "time"

// Todo is a single to-do item, optionally attached to a list.
type Todo struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Parent      string `json:"parent,omitempty"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"`
}

// TodoPatch carries the whitelisted mutable fields of a todo. Nil means
// "leave unchanged" for Text and Parent. Completed/CompletedAt are always
// set by normalization and always applied.
type TodoPatch struct {
	Text        *string
	Parent      *string
	Completed   bool
	CompletedAt *int64
}

// SetCompleted applies the completion rule: only an explicit boolean true
// marks the todo done and stamps completedAt; every other value forces the
// todo back to not-done with a null timestamp.
func (t *Todo) SetCompleted(v any) {
	if done, ok := v.(bool); ok && done {
		t.Completed = true
		ms := time.Now().UnixMilli()
		t.CompletedAt = &ms
		return
	}
	t.Completed = false
	t.CompletedAt = nil
}

// NormalizeCompletion maps a raw "completed" payload value to the pair of
// fields a patch must carry, under the same rule as SetCompleted.
func NormalizeCompletion(v any) (bool, *int64) {
	if done, ok := v.(bool); ok && done {
		ms := time.Now().UnixMilli()
		return true, &ms
	}
	return false, nil
}
