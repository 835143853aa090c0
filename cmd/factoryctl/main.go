package main

import "github.com/andrescamacho/factorycore/internal/adapters/cli"

func main() {
	cli.Execute()
}
