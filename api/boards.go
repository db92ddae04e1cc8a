package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskboard-api/domain"
)

type boardsResponse struct {
	Boards []domain.Board `json:"boards"`
}

func postBoard(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		payload, err := decodeBody(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		trimStringFields(payload, "title")
		if failure := validateBody(createBoardSchema, payload); failure != nil {
			return c.JSON(http.StatusBadRequest, failure)
		}

		board := &domain.Board{
			ID:    uuid.NewString(),
			Owner: user.ID,
			Title: stringField(payload, "title"),
		}
		if err := store.InsertBoard(c.Request().Context(), board); err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		return c.JSON(http.StatusOK, board)
	}
}

func getBoards(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		boards, err := store.FetchBoards(c.Request().Context(), user.ID)
		if err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, boardsResponse{Boards: boards})
	}
}
