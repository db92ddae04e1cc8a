package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"taskboard-api/domain"
)

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// postUser registers an account. The raw password is bcrypt-hashed and the
// first auth token is issued inline, so registration doubles as login.
func postUser(store Storage, codec TokenCodec) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		payload, err := decodeBody(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		trimStringFields(payload, "email")
		if failure := validateBody(createUserSchema, payload); failure != nil {
			return c.JSON(http.StatusBadRequest, failure)
		}

		email := strings.ToLower(stringField(payload, "email"))
		hash, err := bcrypt.GenerateFromPassword([]byte(stringField(payload, "password")), bcrypt.DefaultCost)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		user := &domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: string(hash),
		}
		token, err := codec.Issue(user.ID, domain.AccessAuth)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		user.Tokens = []domain.Token{{Access: domain.AccessAuth, Token: token}}

		if err := store.CreateUser(ctx, user); err != nil {
			var inUse EmailInUseError
			if errors.As(err, &inUse) {
				return c.JSON(http.StatusBadRequest, &validationFailure{
					Message: "validation failed",
					Errors:  map[string]string{"email": "already registered"},
				})
			}
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}

		c.Response().Header().Set(HeaderAuth, token)
		return c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
	}
}

// loginUser exchanges credentials for a fresh auth token. Unknown email
// and wrong password are indistinguishable in the response.
func loginUser(store Storage, codec TokenCodec) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		payload, err := decodeBody(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		trimStringFields(payload, "email")
		if failure := validateBody(loginSchema, payload); failure != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		email := strings.ToLower(stringField(payload, "email"))
		user, err := store.FindUserByEmail(ctx, email)
		if err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		if user == nil {
			return c.NoContent(http.StatusBadRequest)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(stringField(payload, "password"))) != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		token, err := codec.Issue(user.ID, domain.AccessAuth)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		if err := store.AppendToken(ctx, user.ID, domain.Token{Access: domain.AccessAuth, Token: token}); err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}

		c.Response().Header().Set(HeaderAuth, token)
		return c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
	}
}

func getMe() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		return c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
	}
}

// deleteToken revokes the token the request authenticated with.
func deleteToken(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		if err := store.RemoveToken(c.Request().Context(), user.ID, currentToken(c)); err != nil {
			c.Logger().Error(err)
			return c.NoContent(http.StatusBadRequest)
		}
		return c.NoContent(http.StatusOK)
	}
}
