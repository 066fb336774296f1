// Command rate rates T20 scorecards locally or against a running server.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0
	ExitInvalid = 1 // The scorecard was rejected
	ExitError   = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errInvalidInput) {
			os.Exit(ExitInvalid)
		}
		os.Exit(ExitError)
	}
}
