package util

import (
	"biokuiz/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusFor(ErrUsernameTaken))
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("edit material 7: %w", ErrMaterialNotFound)))
	assert.Equal(t, http.StatusGone, StatusFor(ErrResetTokenExpired))
	assert.Equal(t, http.StatusBadRequest, StatusFor(fmt.Errorf("%w: text is required", model.ErrInvalidQuestion)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestFailHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Fail(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}
