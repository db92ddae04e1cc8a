package api

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"taskboard-api/domain"
)

// HeaderAuth is the request and response header carrying the auth token.
const HeaderAuth = "X-Auth"

var errInvalidToken = errors.New("invalid token")

const (
	ctxUserKey  = "taskboard.user"
	ctxTokenKey = "taskboard.token"
)

type authClaims struct {
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// HMACCodec signs and verifies HS256 tokens under a single shared secret.
// Tokens carry no expiry; validity is tracked in the store as the user's
// active token set.
type HMACCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACCodec creates a codec from the injected signing secret.
func NewHMACCodec(secret []byte) *HMACCodec {
	if len(secret) == 0 {
		panic("api.NewHMACCodec: empty signing secret")
	}
	return &HMACCodec{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Issue produces a signed token binding the subject and access class.
func (c *HMACCodec) Issue(subjectID, access string) (string, error) {
	claims := authClaims{
		Access:           access,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subjectID},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the token signature and decodes its claims. Failures are
// collapsed to a single opaque error.
func (c *HMACCodec) Verify(token string) (TokenClaims, error) {
	parsed, err := c.parser.ParseWithClaims(token, &authClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return TokenClaims{}, errInvalidToken
	}
	claims, ok := parsed.Claims.(*authClaims)
	if !ok || claims.Subject == "" {
		return TokenClaims{}, errInvalidToken
	}
	return TokenClaims{Subject: claims.Subject, Access: claims.Access}, nil
}

// authenticate guards protected routes. A request advances through token
// extraction, signature verification and an active-token lookup; any
// failure rejects it with an empty 401. A verified signature is not enough
// on its own: a token removed from the user's active set must fail here.
func authenticate(store Storage, codec TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := authTokenFromHeader(c.Request().Header)
			if err != nil {
				return c.NoContent(http.StatusUnauthorized)
			}
			claims, err := codec.Verify(token)
			if err != nil || claims.Access != domain.AccessAuth {
				return c.NoContent(http.StatusUnauthorized)
			}
			user, err := store.FindUserByToken(c.Request().Context(), claims.Subject, token, domain.AccessAuth)
			if err != nil || user == nil {
				return c.NoContent(http.StatusUnauthorized)
			}
			c.Set(ctxUserKey, user)
			c.Set(ctxTokenKey, token)
			return next(c)
		}
	}
}

func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(ctxUserKey).(*domain.User)
	return user
}

func currentToken(c echo.Context) string {
	token, _ := c.Get(ctxTokenKey).(string)
	return token
}
