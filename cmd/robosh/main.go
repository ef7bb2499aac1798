package main

import (
	"github.com/robotalks/baseboard.go/pkg/cli/sh"
	"github.com/robotalks/baseboard.go/pkg/robot"

	_ "github.com/robotalks/baseboard.go/pkg/cli/cmds/baseboard"
)

//go-build: CGO_ENABLED=0

func init() {
	robot.SetupFlags()
}

func main() {
	sh.Main()
}
