package common

import "errors"

var (
	// ErrConfig marks a run that cannot start because required settings are absent.
	ErrConfig = errors.New("configuration error")

	// ErrUpstream marks a failed read from the account data API.
	ErrUpstream = errors.New("upstream fetch error")
)
