// Copyright (c) 2026 Mogcord. All rights reserved.

package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/cookie"
)

/*
TestSet_Flags verifies that every managed cookie carries the uniform
security attributes and a future expiry.
*/
func TestSet_Flags(t *testing.T) {
	tests := []struct {
		name   string
		cookie cookie.Name
	}{
		{"access", cookie.AccesToken},
		{"session", cookie.SessionToken},
		{"device", cookie.DeviceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			cookie.Set(recorder, tt.cookie, "value-1")

			cookies := recorder.Result().Cookies()
			require.Len(t, cookies, 1)

			written := cookies[0]
			assert.Equal(t, string(tt.cookie), written.Name)
			assert.Equal(t, "value-1", written.Value)
			assert.Equal(t, "/", written.Path)
			assert.True(t, written.HttpOnly)
			assert.True(t, written.Secure)
			assert.Equal(t, http.SameSiteLaxMode, written.SameSite)
			assert.True(t, written.Expires.After(time.Now()))
		})
	}
}

/*
TestGet reads a cookie back and classifies the missing case.
*/
func TestGet(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: string(cookie.DeviceID), Value: "device-1"})

	value, err := cookie.Get(request, cookie.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, "device-1", value)

	_, err = cookie.Get(request, cookie.AccesToken)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.KindNotFound, appError.Kind)
	assert.Equal(t, apperr.SubjectCookie, appError.On)
}

/*
TestClear writes an expired cookie under the same name and path.
*/
func TestClear(t *testing.T) {
	recorder := httptest.NewRecorder()
	cookie.Clear(recorder, cookie.SessionToken)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	cleared := cookies[0]
	assert.Equal(t, string(cookie.SessionToken), cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, "/", cleared.Path)
	assert.True(t, cleared.Expires.Before(time.Now()))
}
