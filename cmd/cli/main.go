package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var rendered renderedError
		if !errors.As(err, &rendered) && !errors.Is(err, huh.ErrUserAborted) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
