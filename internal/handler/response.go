package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-blog-api/internal/logger"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    apierror.CodeInternal,
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		body.Code = apierror.CodeDuplicateEmail
		body.Message = "User already exists"
	} else {
		logger.From(r.Context()).Error("unhandled error", "error", err.Error(), "path", r.URL.Path)
	}

	if status == 0 {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}

// decodeJSON reads a single JSON object and rejects unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apierror.New(apierror.CodeBadRequest, "invalid JSON body", "", http.StatusBadRequest)
	}
	if decoder.More() {
		return apierror.New(apierror.CodeBadRequest, "invalid JSON body", "", http.StatusBadRequest)
	}
	return nil
}
