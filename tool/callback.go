package tool

import (
	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/store"
)

func FastReturnError(msg string) gin.H {
	return gin.H{
		"error": msg,
	}
}

// FastReturnErrorWithMessage builds the {error, message} failure body.
func FastReturnErrorWithMessage(msg string, message any) gin.H {
	return gin.H{
		"error":   msg,
		"message": message,
	}
}

// FastReturnKindError renders err as a failure body. The underlying cause is
// left out; only the kind's code and summary reach the caller.
func FastReturnKindError(err error) gin.H {
	se := store.AsError(err)
	return FastReturnErrorWithMessage(se.Code(), se.Message())
}
