package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/lockerdesk/allocator"
	"github.com/fulldump/lockerdesk/api/apifacilityv1"
	"github.com/fulldump/lockerdesk/facility"
	"github.com/fulldump/lockerdesk/service"
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

type errorMapping struct {
	target      error
	status      int
	description string
}

var errorMappings = []errorMapping{
	{ErrUnauthorized, http.StatusUnauthorized, "user is not authenticated"},
	{ErrUnavailable, http.StatusServiceUnavailable, "database is not operating, try again later"},
	{allocator.ErrorInvalidRange, http.StatusBadRequest, "bounds must satisfy 0 < min < max within the locker limit"},
	{allocator.ErrorInvalidID, http.StatusNotFound, "locker does not belong to this facility"},
	{allocator.ErrorNotAllocated, http.StatusConflict, "locker is not rented"},
	{allocator.ErrorNoAvailableSlot, http.StatusConflict, "every locker is rented or out of commission"},
	{facility.ErrorEmptyPayload, http.StatusBadRequest, "payload is required"},
	{facility.ErrorFacilityIsClosed, http.StatusServiceUnavailable, "facility is closed"},
	{service.ErrorInvalidFacilityName, http.StatusBadRequest, "facility name must be alphanumeric, dots, dashes or underscores"},
	{service.ErrorFacilityNotFound, http.StatusNotFound, "facility does not exist"},
	{service.ErrorFacilityAlreadyExists, http.StatusConflict, "facility already exists"},
	{facility.ErrorAlreadyExists, http.StatusConflict, "facility already exists"},
	{apifacilityv1.ErrorMalformedLockerID, http.StatusBadRequest, "locker id must be an integer"},
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				writePrettyError(w, m.status, err.Error(), m.description)
				return
			}
		}

		if err == box.ErrResourceNotFound {
			writePrettyError(w, http.StatusNotFound, err.Error(),
				fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))
			return
		}

		if err == box.ErrMethodNotAllowed {
			writePrettyError(w, http.StatusMethodNotAllowed, err.Error(),
				fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))
			return
		}

		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) || errors.As(err, &typeError) {
			writePrettyError(w, http.StatusBadRequest, err.Error(), "Malformed JSON")
			return
		}

		writePrettyError(w, http.StatusInternalServerError, err.Error(), "Unexpected error")
	}
}

func writePrettyError(w http.ResponseWriter, status int, message, description string) {
	w.WriteHeader(status)
	PrettyError{
		Message:     message,
		Description: description,
	}.MarshalTo(w)
}
