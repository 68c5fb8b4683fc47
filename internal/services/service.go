package services

import "errors"

// Service is implemented by every background service run by the agent.
type Service interface {
	Start() error
	Stop() error
}

var (
	ErrAlreadyRunning = errors.New("service is already running")
	ErrNotRunning     = errors.New("service is not running")
)
