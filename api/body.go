package api

import (
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// requestBodyMaxSize bounds how much of a request body is read.
const requestBodyMaxSize = 1 << 20

// decodeBody reads a bounded JSON object from the request. Handlers pull
// whitelisted fields out of the returned document after validation.
func decodeBody(c echo.Context) (map[string]any, error) {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	payload := map[string]any{}
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func trimStringFields(payload map[string]any, fields ...string) {
	for _, f := range fields {
		if v, ok := payload[f].(string); ok {
			payload[f] = strings.TrimSpace(v)
		}
	}
}

func stringField(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}
