package main

import (
	"github.com/snnfw/neurostore/cmd"
)

func main() {
	cmd.Execute()
}
