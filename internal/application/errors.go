package application

import "errors"

var ErrNotFound = errors.New("not found")
var ErrUnauthorized = errors.New("unauthorized")
var ErrValidation = errors.New("validation failed")
var ErrRunInProgress = errors.New("scrape run already in progress")
