// cmd/cesu8/main.go
package main

import (
	"os"

	"cesu8/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
