package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskboard-api/domain"
)

type listsResponse struct {
	Lists []domain.List `json:"lists"`
}

func postList(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		payload, err := decodeBody(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		trimStringFields(payload, "title")
		if failure := validateBody(createListSchema, payload); failure != nil {
			return c.JSON(http.StatusBadRequest, failure)
		}

		list := &domain.List{
			ID:     uuid.NewString(),
			Owner:  user.ID,
			Parent: stringField(payload, "parent"),
			Title:  stringField(payload, "title"),
		}
		if err := store.InsertList(c.Request().Context(), list); err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// getLists returns the caller's lists under the parent board named by the
// query string. A parent that is not a well-formed id cannot match any
// record, so the result is an empty collection rather than an error.
func getLists(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		parent := c.QueryParam("parent")
		if uuid.Validate(parent) != nil {
			return c.JSON(http.StatusOK, listsResponse{Lists: []domain.List{}})
		}
		lists, err := store.FetchLists(c.Request().Context(), user.ID, parent)
		if err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, listsResponse{Lists: lists})
	}
}
