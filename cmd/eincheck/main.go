package main

import (
	"github.com/EPronovost/eincheck/pkg/cmd"
)

func main() {
	cmd.Execute()
}
