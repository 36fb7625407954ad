package format

import (
	"fmt"

	"github.com/s0up4200/gitexplore/github"
)

// ErrorMessage returns the user-facing text for a client error. Errors
// outside the client taxonomy are reported as unknown.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	apiErr := github.AsError(err)
	switch apiErr.Kind {
	case github.KindServer:
		return fmt.Sprintf("Server error (%d). Please try again.", apiErr.StatusCode)
	case github.KindDecoding:
		return "Couldn't read the server response."
	case github.KindNetwork:
		return "Network issue. Check your connection and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
