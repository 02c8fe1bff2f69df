// jsvet is a static analyzer for JavaScript sources.
// It reports quality and security findings and can suggest fixes.
package main

import (
	"errors"
	"os"

	"github.com/jsvet/jsvet/cmd/jsvet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, cmd.ErrFindings) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
