package main

import (
	"os"

	"NewsVerifier/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
