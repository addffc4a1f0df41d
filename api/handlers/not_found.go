package handlers

import (
	"fmt"
	"net/http"

	"github.com/tebben/cadastreur/errors"
)

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	details := fmt.Sprintf("Path '%s' not found", r.URL.Path)
	apiError := errors.NewAPIError(http.StatusNotFound, "Not found", &details)
	HandleError(w, apiError)
}
