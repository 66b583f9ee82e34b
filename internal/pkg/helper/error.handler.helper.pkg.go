package helper

import (
	"uploadkit-go/internal/pkg/logger"
)

// HandleAppError logs err tagged with the function and step that produced
// it, and swallows it. For cleanup paths where the primary outcome already
// stands and the failure must not replace it.
func HandleAppError(err error, function, step string) {
	if err != nil {
		logger.Error.Println("Error in function: ", function, "Step: ", step, "Details: ", err)
	}
}
