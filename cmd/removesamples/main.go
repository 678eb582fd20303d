package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nzbgetcom/Extension-RemoveSamples/internal/nzbget"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		var exit *nzbget.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Signal.Code())
		}
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
