//go:build !sdl

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The SDL build of gpu-life requires the sdl build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags sdl ./cmd/life-sdl`.")
	os.Exit(2)
}
