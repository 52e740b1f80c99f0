package redisrepo

import "fmt"

const (
	TOKEN_KEY          = "session:%s:token"  // <sessionID>
	LOGIN_ATTEMPTS_KEY = "login-attempts:%s" // <clientIP>
)

func TokenKey(sessionID string) string {
	return fmt.Sprintf(TOKEN_KEY, sessionID)
}

func LoginAttemptsKey(clientIP string) string {
	return fmt.Sprintf(LOGIN_ATTEMPTS_KEY, clientIP)
}
