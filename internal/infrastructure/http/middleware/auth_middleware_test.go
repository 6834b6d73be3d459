package middleware

import (
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/pkg/jwt"
)

func run(t *testing.T, manager *jwt.Manager, setup func(*http.Request)) (string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	if setup != nil {
		setup(req)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	subject := ""
	err := EchoAuth(manager)(func(c echo.Context) error {
		if claims, ok := GetClaims(c); ok {
			subject = claims.Subject
		} else {
			subject = "anonymous"
		}
		return nil
	})(c)
	return subject, err
}

func TestEchoAuth(t *testing.T) {
	manager := jwt.NewManager("secret", "meeting-intel", time.Hour)
	token, err := manager.GenerateAccessToken("ops-bot", "")
	require.NoError(t, err)

	subject, err := run(t, manager, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.NoError(t, err)
	assert.Equal(t, "ops-bot", subject)

	subject, err = run(t, manager, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	})
	require.NoError(t, err)
	assert.Equal(t, "ops-bot", subject)
}

func TestEchoAuth_Rejects(t *testing.T) {
	manager := jwt.NewManager("secret", "meeting-intel", time.Hour)
	expired, err := jwt.NewManager("secret", "meeting-intel", -time.Minute).GenerateAccessToken("x", "")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   errors.ErrorCode
	}{
		{"missing", "", errors.ErrorCode_UNAUTHENTICATED},
		{"wrong scheme", "Basic abc", errors.ErrorCode_UNAUTHENTICATED},
		{"garbage", "Bearer nope", errors.ErrorCode_AUTH_INVALID_TOKEN},
		{"expired", "Bearer " + expired, errors.ErrorCode_AUTH_TOKEN_EXPIRED},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, manager, func(r *http.Request) {
				if tc.header != "" {
					r.Header.Set("Authorization", tc.header)
				}
			})
			var appErr errors.AppError
			require.True(t, stdErrors.As(err, &appErr))
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
		})
	}
}

func TestEchoAuth_Disabled(t *testing.T) {
	subject, err := run(t, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", subject)
}
