package api

import (
	"errors"
	"net/http"

	"github.com/boristopalov/mazerace/pkg/core"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidTransition), errors.Is(err, core.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoSelection):
		return http.StatusPreconditionFailed
	case errors.Is(err, core.ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, logger *log.Logger, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.Path(), "err", err)
	} else {
		logger.Debug("request rejected", "path", c.Path(), "status", status, "err", err)
	}
	return c.JSON(status, errorBody{Error: err.Error()})
}
