// Package controllers adapts HTTP requests to the application services.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/pantry/app/domain"
	"github.com/shashiranjanraj/pantry/pkg/bind"
	"github.com/shashiranjanraj/pantry/pkg/logger"
	"github.com/shashiranjanraj/pantry/pkg/response"
	"github.com/shashiranjanraj/pantry/pkg/router"
)

// decode binds the JSON body into dest and answers the request itself when
// the body is malformed or fails validation.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(w, r, dest)
	if err != nil {
		response.BadRequest(w, err.Error())
		return false
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

// idParam reads a positive integer route parameter. Anything else is
// answered with 404.
func idParam(w http.ResponseWriter, r *http.Request, key string) (uint, bool) {
	n, err := strconv.ParseUint(router.Param(r, key), 10, 64)
	if err != nil || n == 0 {
		response.NotFound(w, "")
		return 0, false
	}
	return uint(n), true
}

// fail maps domain error kinds to HTTP statuses.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrConversion):
		response.BadRequest(w, err.Error())
	case errors.Is(err, bind.ErrMalformed):
		response.BadRequest(w, err.Error())
	case errors.As(err, &ve):
		field := ve.Field
		if field == "" {
			field = "base"
		}
		response.ValidationError(w, map[string]string{field: ve.Error()})
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
