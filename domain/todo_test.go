package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestSetCompletedTrueStampsTimestamp(t *testing.T) {
	todo := Todo{ID: "t1", Text: "buy milk"}
	before := time.Now().UnixMilli()

	todo.SetCompleted(true)

	if !todo.Completed {
		t.Fatal("expected todo to be completed")
	}
	if todo.CompletedAt == nil {
		t.Fatal("expected completedAt to be set")
	}
	if *todo.CompletedAt < before || *todo.CompletedAt > time.Now().UnixMilli() {
		t.Fatalf("completedAt out of range: %d", *todo.CompletedAt)
	}
}

func TestSetCompletedClearsForNonTrueValues(t *testing.T) {
	ms := time.Now().UnixMilli()
	for name, v := range map[string]any{
		"false":  false,
		"absent": nil,
		"string": "true",
		"number": float64(1),
		"object": map[string]any{},
	} {
		t.Run(name, func(t *testing.T) {
			todo := Todo{ID: "t1", Text: "x", Completed: true, CompletedAt: &ms}
			todo.SetCompleted(v)
			if todo.Completed {
				t.Fatal("expected completed to be forced false")
			}
			if todo.CompletedAt != nil {
				t.Fatalf("expected completedAt to be cleared, got %d", *todo.CompletedAt)
			}
		})
	}
}

func TestTodoMarshalKeepsNullCompletedAt(t *testing.T) {
	todo := Todo{ID: "t1", Text: "buy milk"}

	payload, err := sonic.Marshal(todo)
	if err != nil {
		t.Fatalf("marshal todo: %v", err)
	}
	if !strings.Contains(string(payload), "\"completedAt\":null") {
		t.Fatalf("expected null completedAt to be present, got %s", payload)
	}
	if strings.Contains(string(payload), "\"parent\"") {
		t.Fatalf("expected empty parent to be omitted, got %s", payload)
	}
}
