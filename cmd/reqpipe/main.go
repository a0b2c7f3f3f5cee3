package main

import (
	"github.com/reqpipe/reqpipe/internal/cli"
)

func main() {
	cli.Execute()
}
