package httperrors

import (
	"encoding/json"
	"net/http"

	"github.com/rejdeboer/collab-server/internal/logger"
)

type Response struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func InternalServerError(w http.ResponseWriter) {
	Write(w, "an unexpected error occured, please try again later", http.StatusInternalServerError)
}

func Write(w http.ResponseWriter, message string, code int) {
	response, err := json.Marshal(Response{
		Message: message,
		Status:  code,
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("error marshalling error response")
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}
