package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
)

type todoResponse struct {
	Todo *domain.Todo `json:"todo"`
}

type todosResponse struct {
	Todos []domain.Todo `json:"todos"`
}

func postTodo(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		payload, err := decodeBody(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		trimStringFields(payload, "text")
		if failure := validateBody(createTodoSchema, payload); failure != nil {
			return c.JSON(http.StatusBadRequest, failure)
		}

		todo := &domain.Todo{
			ID:     uuid.NewString(),
			Owner:  user.ID,
			Parent: stringField(payload, "parent"),
			Text:   stringField(payload, "text"),
		}
		if err := store.InsertTodo(c.Request().Context(), todo); err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		return c.JSON(http.StatusOK, todo)
	}
}

func getTodos(store Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newTodoRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		user := currentUser(c)
		fetchStart := time.Now()
		todos, fetchErr := store.FetchTodos(c.Request().Context(), user.ID)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.NoContent(http.StatusInternalServerError)
			return err
		}
		metrics.SetTodosReturned(len(todos))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, todosResponse{Todos: todos})
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func getTodo(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		id := c.Param("id")
		if uuid.Validate(id) != nil {
			return c.NoContent(http.StatusNotFound)
		}
		todo, err := store.FindTodo(c.Request().Context(), user.ID, id)
		if err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		if todo == nil {
			return c.NoContent(http.StatusNotFound)
		}
		return c.JSON(http.StatusOK, todoResponse{Todo: todo})
	}
}

func deleteTodo(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		id := c.Param("id")
		if uuid.Validate(id) != nil {
			return c.NoContent(http.StatusNotFound)
		}
		todo, err := store.DeleteTodo(c.Request().Context(), user.ID, id)
		if err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		if todo == nil {
			return c.NoContent(http.StatusNotFound)
		}
		return c.JSON(http.StatusOK, todoResponse{Todo: todo})
	}
}

// patchTodo mutates the whitelisted fields of a todo. Completion is
// normalized unconditionally: only an explicit boolean true marks the todo
// done and stamps completedAt; anything else resets both fields.
func patchTodo(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		id := c.Param("id")
		if uuid.Validate(id) != nil {
			return c.NoContent(http.StatusNotFound)
		}
		payload, err := decodeBody(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		patch := domain.TodoPatch{}
		if text, ok := payload["text"].(string); ok {
			patch.Text = &text
		}
		if parent, ok := payload["parent"].(string); ok {
			if uuid.Validate(parent) != nil {
				return c.NoContent(http.StatusBadRequest)
			}
			patch.Parent = &parent
		}
		patch.Completed, patch.CompletedAt = domain.NormalizeCompletion(payload["completed"])

		todo, err := store.UpdateTodo(c.Request().Context(), user.ID, id, patch)
		if err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		if todo == nil {
			return c.NoContent(http.StatusNotFound)
		}
		return c.JSON(http.StatusOK, todoResponse{Todo: todo})
	}
}
