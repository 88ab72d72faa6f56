package main

import (
	"keyscope-core/internal/cli"
)

func main() {
	cli.Execute()
}
