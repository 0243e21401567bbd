package domain

import "strings"

type User struct {
	Username     string
	PasswordHash []byte
	Balance      int64
}

// CanonicalUsername is the form usernames are stored and compared in.
// Only case is folded; whitespace is significant.
func CanonicalUsername(username string) string {
	return strings.ToLower(username)
}
