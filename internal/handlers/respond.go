package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/gin-gonic/gin"
)

// fail writes the error to the response using the taxonomy's status
// mapping. Storage failures surface as a generic message; the cause is
// logged here and nowhere else.
func fail(ctx *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	if status == http.StatusInternalServerError {
		if cause := errors.Unwrap(err); cause != nil {
			log.Printf("storage failure: %v", cause)
		} else {
			log.Printf("internal error: %v", err)
		}
		ctx.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)

	if err != nil {
		return 0, apperr.Newf(apperr.InvalidPayload, "Invalid id: %s", raw)
	}

	return uint(id), nil
}
