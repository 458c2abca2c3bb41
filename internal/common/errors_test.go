package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := fmt.Errorf("create sale: %w", Store("unable to create sale", cause))

	require.True(t, IsAppError(err))
	require.True(t, HasCode(err, CodeStore))
	require.False(t, HasCode(err, CodeNotFound))
	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	require.Equal(t, "unable to create sale: disk I/O error", appErr.Error())
}

func TestValidationDetails(t *testing.T) {
	err := Validation("unknown medicines").WithDetails(map[string]any{"medicines": []int64{7}})
	require.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	require.Equal(t, "unknown medicines", err.Error())
	require.NotNil(t, err.Details)
	require.False(t, IsAppError(errors.New("plain")))
}
