// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/frap129/trls-sub000/internal/adapters/config"
	_ "github.com/frap129/trls-sub000/internal/adapters/logger"
	_ "github.com/frap129/trls-sub000/internal/adapters/podman"
	// Register app nodes.
	_ "github.com/frap129/trls-sub000/internal/app"
)
