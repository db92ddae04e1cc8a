package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard-api/domain"
)

// backend is the slice of the store the cache fronts. User and token
// operations are deliberately excluded: token revocation must be observed
// on the very next request.
type backend interface {
	InsertTodo(ctx context.Context, todo *domain.Todo) error
	FetchTodos(ctx context.Context, owner string) ([]domain.Todo, error)
	FindTodo(ctx context.Context, owner, id string) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, owner, id string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, owner, id string, patch domain.TodoPatch) (*domain.Todo, error)
	InsertBoard(ctx context.Context, board *domain.Board) error
	FetchBoards(ctx context.Context, owner string) ([]domain.Board, error)
	InsertList(ctx context.Context, list *domain.List) error
	FetchLists(ctx context.Context, owner, parent string) ([]domain.List, error)
}

// Cache wraps a Storage instance with Redis-backed caching for collection
// reads; every mutation evicts the collections it could have changed.
// Redis trouble degrades to the backing storage without failing requests.
type Cache struct {
	*Storage
	base  backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching Storage wrapper using the provided Redis
// client and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}

	c := &Cache{
		base:  base,
		redis: client,
		ttl:   ttl,
	}
	if s, ok := base.(*Storage); ok {
		c.Storage = s
	}
	return c
}

func (c *Cache) InsertTodo(ctx context.Context, todo *domain.Todo) error {
	if err := c.base.InsertTodo(ctx, todo); err != nil {
		return err
	}
	c.evict(ctx, todosCacheKey(todo.Owner))
	return nil
}

func (c *Cache) FetchTodos(ctx context.Context, owner string) ([]domain.Todo, error) {
	key := todosCacheKey(owner)
	var cached []domain.Todo
	if c.loadCollection(ctx, key, &cached) {
		return cached, nil
	}

	todos, err := c.base.FetchTodos(ctx, owner)
	if err != nil {
		return nil, err
	}
	c.storeCollection(ctx, key, todos)
	return todos, nil
}

func (c *Cache) FindTodo(ctx context.Context, owner, id string) (*domain.Todo, error) {
	return c.base.FindTodo(ctx, owner, id)
}

func (c *Cache) DeleteTodo(ctx context.Context, owner, id string) (*domain.Todo, error) {
	todo, err := c.base.DeleteTodo(ctx, owner, id)
	if err == nil && todo != nil {
		c.evict(ctx, todosCacheKey(owner))
	}
	return todo, err
}

func (c *Cache) UpdateTodo(ctx context.Context, owner, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	todo, err := c.base.UpdateTodo(ctx, owner, id, patch)
	if err == nil && todo != nil {
		c.evict(ctx, todosCacheKey(owner))
	}
	return todo, err
}

func (c *Cache) InsertBoard(ctx context.Context, board *domain.Board) error {
	if err := c.base.InsertBoard(ctx, board); err != nil {
		return err
	}
	c.evict(ctx, boardsCacheKey(board.Owner))
	return nil
}

func (c *Cache) FetchBoards(ctx context.Context, owner string) ([]domain.Board, error) {
	key := boardsCacheKey(owner)
	var cached []domain.Board
	if c.loadCollection(ctx, key, &cached) {
		return cached, nil
	}

	boards, err := c.base.FetchBoards(ctx, owner)
	if err != nil {
		return nil, err
	}
	c.storeCollection(ctx, key, boards)
	return boards, nil
}

func (c *Cache) InsertList(ctx context.Context, list *domain.List) error {
	if err := c.base.InsertList(ctx, list); err != nil {
		return err
	}
	c.evict(ctx, listsCacheKey(list.Owner, list.Parent))
	return nil
}

func (c *Cache) FetchLists(ctx context.Context, owner, parent string) ([]domain.List, error) {
	key := listsCacheKey(owner, parent)
	var cached []domain.List
	if c.loadCollection(ctx, key, &cached) {
		return cached, nil
	}

	lists, err := c.base.FetchLists(ctx, owner, parent)
	if err != nil {
		return nil, err
	}
	c.storeCollection(ctx, key, lists)
	return lists, nil
}

func (c *Cache) loadCollection(ctx context.Context, key string, out any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) storeCollection(ctx context.Context, key string, value any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, keys ...string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, keys...).Result()
}

func todosCacheKey(owner string) string {
	return "todos:" + owner
}

func boardsCacheKey(owner string) string {
	return "boards:" + owner
}

func listsCacheKey(owner, parent string) string {
	return "lists:" + owner + ":" + parent
}
