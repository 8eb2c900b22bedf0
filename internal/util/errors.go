package util

import "errors"

var (
	ErrNotEnrolled        = errors.New("user is not enrolled in this course")
	ErrAlreadyEnrolled    = errors.New("user is already enrolled in this course")
	ErrCourseNotFound     = errors.New("course not found")
	ErrContentNotFound    = errors.New("content not found in this course")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrEmailRegistered    = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTopic       = errors.New("topic cannot be turned into a course")
	ErrStoreUnavailable   = errors.New("graph store unavailable")
	ErrInvariantViolation = errors.New("progress invariant violation")
)
