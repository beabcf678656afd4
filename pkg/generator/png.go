// png.go - Image file writer.
package generator

import (
	"fmt"
	"image"
	"os"
)

// writeFile encodes img to the given path.
func writeFile(output string, img image.Image, format string) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}

	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
