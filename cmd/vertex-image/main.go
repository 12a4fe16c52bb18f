// Command vertex-image generates a single image with the image model and
// writes it to disk.
package main

import (
	"os"

	"github.com/opark001/vertex-gemini-web/internal/logging"
)

func main() {
	defer logging.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
