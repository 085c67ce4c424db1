package middleware

import (
	"encoding/json"
	"net/http"

	"go-blog-api/internal/model"
)

func errorJSON(code string, message string) []byte {
	body, _ := json.Marshal(model.ErrorResponse{
		Error: &model.APIError{Code: code, Message: message},
	})
	return append(body, '\n')
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(errorJSON(code, message))
}
