package session

import "time"

const (
	EventUserLoggedIn  = "UserLoggedIn"
	EventUserLoggedOut = "UserLoggedOut"
)

type UserLoggedIn struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	LoggedInAt  time.Time `json:"logged_in_at"`
}

type UserLoggedOut struct {
	Username    string    `json:"username"`
	LoggedOutAt time.Time `json:"logged_out_at"`
}
