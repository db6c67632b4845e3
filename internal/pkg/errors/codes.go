package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidBody = New(
		"INVALID_BODY",
		"Invalid request body",
		http.StatusBadRequest,
	)

	ErrInvalidDepartureTime = New(
		"INVALID_DEPARTURE_TIME",
		"DepartureTime must be an ISO 8601 timestamp",
		http.StatusBadRequest,
	)

	ErrProvider = New(
		"PROVIDER_ERROR",
		"Location provider request failed",
		http.StatusBadGateway,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
