package server_test

import (
	"errors"
	"testing"

	"lintang/fleetrouter/pkg/server"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorf(t *testing.T) {
	t.Run("code and cause are both matched by errors.Is", func(t *testing.T) {
		cause := errors.New("dial tcp: timeout")
		err := server.WrapErrorf(cause, server.ErrPlaceNotFound, "place %q not found", "gandhipuram")

		assert.True(t, errors.Is(err, server.ErrPlaceNotFound))
		assert.True(t, errors.Is(err, cause))
		assert.False(t, errors.Is(err, server.ErrNoRouteFound))

		var serr *server.Error
		assert.True(t, errors.As(err, &serr))
		assert.Equal(t, server.ErrPlaceNotFound, serr.Code())
		assert.Equal(t, `place "gandhipuram" not found`, serr.Message())
		assert.Equal(t, `place "gandhipuram" not found: dial tcp: timeout`, err.Error())
	})

	t.Run("nil cause", func(t *testing.T) {
		err := server.WrapErrorf(nil, server.ErrNoRouteFound, "no route")
		assert.Equal(t, "no route", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
