package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps domain and service errors onto HTTP codes. Anything
// unrecognised is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrExtraNotFound),
		errors.Is(err, services.ErrGuestNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidExtraCategory),
		errors.Is(err, models.ErrInvalidDates),
		errors.Is(err, models.ErrNoRoom),
		errors.Is(err, services.ErrExtraTierMismatch),
		errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrRoomFull),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrRoomInUse),
		errors.Is(err, services.ErrExtraInUse),
		errors.Is(err, services.ErrDuplicateRoomNumber),
		errors.Is(err, services.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, services.ErrReservationIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.JSONError(c, code, "internal error")
		return
	}
	utils.JSONError(c, code, err.Error())
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
}

func publicIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return uuid.Nil, false
	}
	return id, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
