package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	base := errors.New("permission denied")
	err := NewUserError("could not open statement.csv", base)

	assert.Equal(t, "could not open statement.csv: permission denied", err.Error())
	require.ErrorIs(t, err, base, "the underlying error stays reachable")

	var uerr *UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "could not open statement.csv", uerr.UserMessage)
}

func TestUserError_NoCause(t *testing.T) {
	err := NewUserError("nothing to import", nil)
	assert.Equal(t, "nothing to import", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}

func TestSentinelWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: row 7", ErrInvalidDate)
	require.ErrorIs(t, wrapped, ErrInvalidDate)
	assert.NotErrorIs(t, wrapped, ErrEmptyInput)
}
