package main

import (
	"github.com/robotalks/qrp.go/pkg/cli/sh"
	env "github.com/robotalks/qrp.go/pkg/remote/env/connector"

	_ "github.com/robotalks/qrp.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
