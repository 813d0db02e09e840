// Package main provides the custodypanel CLI application.
// custodypanel builds and analyzes the monthly prison overcrowding and
// deaths-in-custody panel.
package main

import (
	"github.com/custodymetrics/custodypanel/cmd"
)

func main() {
	cmd.Execute()
}
