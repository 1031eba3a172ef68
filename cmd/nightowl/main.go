package main

import "github.com/brianraines/nightowl/internal/cli"

func main() {
	cli.Execute()
}
