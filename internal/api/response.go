package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"progresstracker/internal/service"
)

const (
	MsgValidationFailed  = "validation failed"
	MsgInvalidBody       = "invalid request body"
	MsgInvalidQuery      = "invalid query parameters"
	MsgProjectNotFound   = "project not found"
	MsgProgressNotFound  = "progress report not found"
	MsgProjectCodeExists = "project code already exists"
	MsgProjectNotExist   = "referenced project does not exist"
	MsgInvalidProjectID  = "invalid project id"
	MsgInvalidProgressID = "invalid progress report id"
	MsgEndpointNotFound  = "API endpoint not found"
	MsgServerError       = "internal server error"
)

// respond writes a success envelope. extra keys (message, total, pagination…)
// are merged in next to data.
func respond(c *gin.Context, status int, data any, extra gin.H) {
	body := gin.H{"success": true, "data": data}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, msg string, details []string) {
	body := gin.H{"success": false, "error": msg}
	if len(details) > 0 {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// failureMessages names the resource-specific texts of writeError.
type failureMessages struct {
	notFound    string
	persistence string
}

// writeError maps service errors to status codes. Internal causes are
// logged and never sent to the client.
func writeError(c *gin.Context, log *zap.Logger, op string, err error, msgs failureMessages) {
	var verr *service.ValidationError
	var berr *service.BatchError

	switch {
	case errors.As(err, &verr):
		log.Warn(op+": validation failed", zap.Strings("details", verr.Details))
		fail(c, http.StatusBadRequest, MsgValidationFailed, verr.Details)
	case errors.As(err, &berr):
		log.Warn(op+": invalid batch request", zap.String("reason", berr.Reason))
		fail(c, http.StatusBadRequest, berr.Reason, nil)
	case errors.Is(err, service.ErrProjectNotExist):
		log.Warn(op+": project does not exist", zap.Error(err))
		fail(c, http.StatusBadRequest, MsgProjectNotExist, nil)
	case errors.Is(err, service.ErrNotFound):
		log.Warn(op+": not found", zap.Error(err))
		fail(c, http.StatusNotFound, msgs.notFound, nil)
	case errors.Is(err, service.ErrConflict):
		log.Warn(op+": conflict", zap.Error(err))
		fail(c, http.StatusConflict, MsgProjectCodeExists, nil)
	case errors.Is(err, service.ErrPersistence):
		log.Error(op+": failed to persist", zap.Error(err))
		fail(c, http.StatusInternalServerError, msgs.persistence, nil)
	default:
		log.Error(op+": unexpected error", zap.Error(err))
		fail(c, http.StatusInternalServerError, MsgServerError, nil)
	}
}
