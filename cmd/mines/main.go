package main

import (
	"github.com/andrescamacho/mythic-mines/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
