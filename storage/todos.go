package storage

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"taskboard-api/domain"
)

type todoEntity struct {
	entityKeys
	Parent      string `json:"Parent,omitempty"`
	Text        string `json:"Text"`
	Completed   bool   `json:"Completed"`
	CompletedAt *int64 `json:"CompletedAt,omitempty"`
}

// InsertTodo persists a new todo under the owner's partition.
func (s *Storage) InsertTodo(ctx context.Context, todo *domain.Todo) error {
	payload, err := json.Marshal(encodeTodo(todo))
	if err != nil {
		return err
	}
	_, err = s.todoTable.AddEntity(ctx, payload, nil)
	return err
}

// FetchTodos retrieves all todos owned by the given user.
func (s *Storage) FetchTodos(ctx context.Context, owner string) ([]domain.Todo, error) {
	filter := "PartitionKey eq '" + owner + "'"
	pager := s.todoTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	todos := []domain.Todo{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, data := range resp.Entities {
			var ent todoEntity
			if err := json.Unmarshal(data, &ent); err != nil {
				return nil, err
			}
			todos = append(todos, *decodeTodo(ent))
		}
	}
	return todos, nil
}

// FindTodo retrieves a single todo by (owner, id). Absent records map to
// nil, never to an error.
func (s *Storage) FindTodo(ctx context.Context, owner, id string) (*domain.Todo, error) {
	todo, _, err := s.getTodo(ctx, owner, id)
	return todo, err
}

// DeleteTodo removes a todo and returns the deleted record, or nil when
// nothing matched.
func (s *Storage) DeleteTodo(ctx context.Context, owner, id string) (*domain.Todo, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		todo, etag, err := s.getTodo(ctx, owner, id)
		if err != nil || todo == nil {
			return nil, err
		}
		match := azcore.ETag(etag)
		_, err = s.todoTable.DeleteEntity(ctx, owner, id, &aztables.DeleteEntityOptions{IfMatch: &match})
		if err == nil {
			return todo, nil
		}
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		if !isStatus(err, http.StatusPreconditionFailed) {
			return nil, err
		}
	}
	return nil, errContention
}

// UpdateTodo applies a patch through an ETag-conditioned replace and
// returns the post-update record, or nil when nothing matched.
func (s *Storage) UpdateTodo(ctx context.Context, owner, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		todo, etag, err := s.getTodo(ctx, owner, id)
		if err != nil || todo == nil {
			return nil, err
		}
		if patch.Text != nil {
			todo.Text = *patch.Text
		}
		if patch.Parent != nil {
			todo.Parent = *patch.Parent
		}
		todo.Completed = patch.Completed
		todo.CompletedAt = patch.CompletedAt

		payload, err := json.Marshal(encodeTodo(todo))
		if err != nil {
			return nil, err
		}
		match := azcore.ETag(etag)
		_, err = s.todoTable.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{
			IfMatch:    &match,
			UpdateMode: aztables.UpdateModeReplace,
		})
		if err == nil {
			return todo, nil
		}
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		if !isStatus(err, http.StatusPreconditionFailed) {
			return nil, err
		}
	}
	return nil, errContention
}

func (s *Storage) getTodo(ctx context.Context, owner, id string) (*domain.Todo, string, error) {
	resp, err := s.todoTable.GetEntity(ctx, owner, id, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}
	var ent todoEntity
	if err := json.Unmarshal(resp.Value, &ent); err != nil {
		return nil, "", err
	}
	return decodeTodo(ent), ent.ETag, nil
}

func encodeTodo(todo *domain.Todo) todoEntity {
	return todoEntity{
		entityKeys:  entityKeys{PartitionKey: todo.Owner, RowKey: todo.ID},
		Parent:      todo.Parent,
		Text:        todo.Text,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
	}
}

func decodeTodo(ent todoEntity) *domain.Todo {
	return &domain.Todo{
		ID:          ent.RowKey,
		Owner:       ent.PartitionKey,
		Parent:      ent.Parent,
		Text:        ent.Text,
		Completed:   ent.Completed,
		CompletedAt: ent.CompletedAt,
	}
}
