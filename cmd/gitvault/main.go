package main

import (
	"os"

	"github.com/tvandinther/gitvault/internal/cmd"
)

func main() {
	app := cmd.New().WithDefaultLogger()
	if err := app.Run(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
