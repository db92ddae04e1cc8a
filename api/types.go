package api

import (
	"context"

	"taskboard-api/domain"
)

// Storage abstracts persistence for handlers and the authentication guard.
// Every resource operation takes the owner id as an explicit argument; the
// implementation scopes reads and writes to it.
type Storage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByToken(ctx context.Context, userID, token, access string) (*domain.User, error)
	AppendToken(ctx context.Context, userID string, token domain.Token) error
	RemoveToken(ctx context.Context, userID, token string) error

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

// EmailInUseError is reported by Storage.CreateUser when the email address
// is already registered.
type EmailInUseError interface {
	error
	EmailInUse()
}

// TokenClaims is the payload bound into an auth token.
type TokenClaims struct {
	Subject string
	Access  string
}

// TokenCodec signs and verifies auth tokens.
type TokenCodec interface {
	Issue(subjectID, access string) (string, error)
	Verify(token string) (TokenClaims, error)
}
