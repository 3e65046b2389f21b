// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/typesync/internal/adapters/archive"
	_ "go.trai.ch/typesync/internal/adapters/cas"
	_ "go.trai.ch/typesync/internal/adapters/config"
	_ "go.trai.ch/typesync/internal/adapters/fetch"
	_ "go.trai.ch/typesync/internal/adapters/fs"
	_ "go.trai.ch/typesync/internal/adapters/generator"
	_ "go.trai.ch/typesync/internal/adapters/logger"
	_ "go.trai.ch/typesync/internal/adapters/output"
	_ "go.trai.ch/typesync/internal/adapters/shell"
	_ "go.trai.ch/typesync/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/typesync/internal/app"
	_ "go.trai.ch/typesync/internal/engine/pipeline"
)
