package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Register wires up all API routes on the provided Echo instance.
// Registration and login are the only unguarded routes besides the health
// probe.
func Register(e *echo.Echo, store Storage, codec TokenCodec, logger *log.Logger) {
	e.Use(RequestLogMiddleware(logger))

	authn := authenticate(store, codec)

	e.POST("/todos", postTodo(store), authn)
	e.GET("/todos", getTodos(store, logger), authn)
	e.GET("/todos/:id", getTodo(store), authn)
	e.DELETE("/todos/:id", deleteTodo(store), authn)
	e.PATCH("/todos/:id", patchTodo(store), authn)

	e.POST("/boards", postBoard(store), authn)
	e.GET("/boards", getBoards(store), authn)

	e.POST("/lists", postList(store), authn)
	e.GET("/lists", getLists(store), authn)

	e.POST("/users", postUser(store, codec))
	e.GET("/users/me", getMe(), authn)
	e.POST("/users/login", loginUser(store, codec))
	e.DELETE("/users/me/token", deleteToken(store), authn)

	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}
