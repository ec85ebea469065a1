// Package main provides the payform command line tool
package main

import (
	"fmt"
	"io"
)

// LaunchGUI prints how to build and run the desktop payment form
func LaunchGUI(w io.Writer) {
	// The fyne toolkit needs cgo and system GL headers, so the window lives
	// in its own binary under cmd/gui.
	fmt.Fprintln(w, "To launch the payment form, build the GUI from cmd/gui:")
	fmt.Fprintln(w, "  go build -o payform-gui ./cmd/gui")
	fmt.Fprintln(w, "Then run: ./payform-gui")
}
