// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/mohitmv/qrun/internal/adapters/config"
	_ "github.com/mohitmv/qrun/internal/adapters/history"
	_ "github.com/mohitmv/qrun/internal/adapters/logger"
	_ "github.com/mohitmv/qrun/internal/adapters/shell"
	_ "github.com/mohitmv/qrun/internal/adapters/watcher"
	// Register app nodes.
	_ "github.com/mohitmv/qrun/internal/app"
)
