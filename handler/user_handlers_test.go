package handler

import (
	"net/http"
	"testing"

	"main/services"
	"main/usecase"
)

// Without a configured remote store every account and session route answers
// 503 instead of crashing on its nil repository.
func TestLocalOnlyAccountRoutes(t *testing.T) {
	stores := services.NewStoreManager(nil, nil, testClock)

	cases := []struct {
		name string
		call func() int
	}{
		{"profile", func() int {
			c, w := testContext(http.MethodGet, "/api/user/profile", nil)
			GetUserProfileHandler(c, &usecase.UserService{})
			return w.Code
		}},
		{"change password", func() int {
			c, w := testContext(http.MethodPost, "/api/user/change-password", nil)
			ChangePasswordHandler(c, nil)
			return w.Code
		}},
		{"stats", func() int {
			c, w := testContext(http.MethodGet, "/api/user/stats", nil)
			NewStatsHandler(nil, nil, &usecase.HabitsService{Stores: stores}).GetUserStats(c)
			return w.Code
		}},
		{"delete user", func() int {
			c, w := testContext(http.MethodDelete, "/api/user/delete?confirm=true", nil)
			DeleteUserHandler(c, nil, nil, nil, stores)
			return w.Code
		}},
		{"active sessions", func() int {
			c, w := testContext(http.MethodGet, "/api/sessions/active", nil)
			GetActiveSessions(c, nil)
			return w.Code
		}},
		{"logout all", func() int {
			c, w := testContext(http.MethodPost, "/api/sessions/logout-all", nil)
			LogoutAllSessions(c, nil, stores)
			return w.Code
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if code := tc.call(); code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want 503", code)
			}
		})
	}
}
