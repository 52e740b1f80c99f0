package service

import "errors"

var (
	ErrInternal       = errors.New("internal error")
	ErrSessionExpired = errors.New("session expired, please sign in again")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrNoPostSelected = errors.New("no post selected")
	ErrViewClosed     = errors.New("view is closed")
	ErrRequestFailed  = errors.New("request failed, please try again")
	ErrInvalidToken   = errors.New("received an unreadable token")
)
