package api

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"taskboard-api/domain"
)

// mockStore records the calls handlers make and returns canned values.
type mockStore struct {
	user      *domain.User
	emailUser *domain.User
	todo      *domain.Todo
	todos     []domain.Todo
	boards    []domain.Board
	lists     []domain.List
	err       error

	createUserErr error
	createdUser   *domain.User
	appended      []domain.Token
	removed       []string

	insertedTodo  *domain.Todo
	insertedBoard *domain.Board
	insertedList  *domain.List

	lastOwner  string
	lastID     string
	lastParent string
	lastPatch  domain.TodoPatch

	findTodoCalls int
}

func (m *mockStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.createdUser = user
	return m.createUserErr
}

func (m *mockStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.emailUser, m.err
}

func (m *mockStore) FindUserByToken(ctx context.Context, userID, token, access string) (*domain.User, error) {
	m.lastID = userID
	return m.user, m.err
}

func (m *mockStore) AppendToken(ctx context.Context, userID string, token domain.Token) error {
	m.appended = append(m.appended, token)
	return m.err
}

func (m *mockStore) RemoveToken(ctx context.Context, userID, token string) error {
	m.removed = append(m.removed, token)
	return m.err
}

func (m *mockStore) InsertTodo(ctx context.Context, todo *domain.Todo) error {
	m.insertedTodo = todo
	return m.err
}

func (m *mockStore) FetchTodos(ctx context.Context, owner string) ([]domain.Todo, error) {
	m.lastOwner = owner
	return m.todos, m.err
}

func (m *mockStore) FindTodo(ctx context.Context, owner, id string) (*domain.Todo, error) {
	m.findTodoCalls++
	m.lastOwner = owner
	m.lastID = id
	return m.todo, m.err
}

func (m *mockStore) DeleteTodo(ctx context.Context, owner, id string) (*domain.Todo, error) {
	m.lastOwner = owner
	m.lastID = id
	return m.todo, m.err
}

func (m *mockStore) UpdateTodo(ctx context.Context, owner, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	m.lastOwner = owner
	m.lastID = id
	m.lastPatch = patch
	return m.todo, m.err
}

func (m *mockStore) InsertBoard(ctx context.Context, board *domain.Board) error {
	m.insertedBoard = board
	return m.err
}

func (m *mockStore) FetchBoards(ctx context.Context, owner string) ([]domain.Board, error) {
	m.lastOwner = owner
	return m.boards, m.err
}

func (m *mockStore) InsertList(ctx context.Context, list *domain.List) error {
	m.insertedList = list
	return m.err
}

func (m *mockStore) FetchLists(ctx context.Context, owner, parent string) ([]domain.List, error) {
	m.lastOwner = owner
	m.lastParent = parent
	return m.lists, m.err
}

// authedContext builds an echo context carrying an authenticated user, the
// way the guard would have left it.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, user *domain.User) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(ctxUserKey, user)
	c.Set(ctxTokenKey, "active-token")
	return c
}
