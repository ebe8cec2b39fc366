// Package all links every shell command set.
package all

import (
	_ "github.com/robotalks/qrp.go/pkg/cli/cmds/radio"
	_ "github.com/robotalks/qrp.go/pkg/cli/cmds/wsjtx"
)
