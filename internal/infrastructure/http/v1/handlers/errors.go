package handlers

import "errors"

var errMissingUserService = errors.New("user service missing from request context; CurrentUser middleware not installed")
