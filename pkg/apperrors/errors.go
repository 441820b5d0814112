package apperrors

import "errors"

var (
	ErrNoDatabase        = errors.New("compensation database not found")
	ErrUnknownPercentile = errors.New("unknown percentile")
	ErrUnknownMetric     = errors.New("unknown metric")
	ErrInjectionDetected = errors.New("parameter rejected by injection screen")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNoToolMatch       = errors.New("no analysis tool matches the request")
	ErrEmptyPlan         = errors.New("planner produced an empty plan")
)
