package api

import (
	"strings"

	"github.com/Domenick1991/flightapp/internal/api/apierr"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
)

type errorResponse struct {
	Error string `json:"error"`
}

// fail aborts the request with the status the gateway would use for err's
// gRPC code. text is the user-facing outcome message.
func fail(c *gin.Context, err error, text string) {
	c.AbortWithStatusJSON(runtime.HTTPStatusFromCode(apierr.Code(err)), errorResponse{Error: strings.TrimSuffix(text, "\n")})
}
