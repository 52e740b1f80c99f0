package handler

import "errors"

var (
	errTooManyAttempts    = errors.New("too many login attempts, try again later")
	errSomethingWentWrong = errors.New("something went wrong")
	errFixFields          = errors.New("please fix the highlighted fields")
)
