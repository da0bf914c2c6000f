package portals

import _ "embed"

// Version is the release of the portals module.
//
//go:embed VERSION
var Version string
