package models

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyEarned is returned when a user already holds an achievement
	ErrAlreadyEarned = errors.New("achievement already earned")
)
