package main

import (
	"github.com/crucible-build/crucible/pkg/cli"
)

func main() {
	cli.Execute()
}
