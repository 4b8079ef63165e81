package util

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"skillify_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Username: "ada", Role: model.RoleAdmin}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "ada", claims.Username)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(&model.User{}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AD", Initials("ada"))
	assert.Equal(t, "X", Initials("x"))
	assert.Equal(t, "", Initials(""))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1}, 21, 2, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPage(nil, 0, 1, 10).TotalPages)
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 1, DefaultPageSize},
		{"?page=3&limit=20", 3, 20},
		{"?page=-1&limit=0", 1, DefaultPageSize},
		{"?limit=1000", 1, MaxPageSize},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/x"+tc.query, nil)
		page, limit := PageParams(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}

func TestValidateMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000000000")
	mime, err := ValidateMimeType(bytes.NewReader(png), []string{MimeImage})
	require.NoError(t, err)
	assert.True(t, IsImage(mime))

	_, err = ValidateMimeType(bytes.NewReader([]byte("plain text")), []string{MimeImage})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}
