package handlers

import (
	"errors"
	"net/http"

	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/services"
	"github.com/epeers/watchlist/internal/validation"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto status codes. Anything unrecognized,
// including provisioning and connection failures, is a 500 carrying the
// error text verbatim.
func respondError(c *gin.Context, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: verr.Error()})
	case errors.Is(err, services.ErrPortfolioNotFound), errors.Is(err, services.ErrTickerNotInPortfolio):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, services.ErrDuplicateName), errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "conflict", Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Message: err.Error()})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: msg})
}
