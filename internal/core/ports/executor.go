// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/typesync/internal/core/domain"
)

// Executor runs subprocesses synchronously.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run starts cmd, waits for it and captures both output streams.
	//
	// A process that ran to completion yields a result whatever its exit status.
	// An error is returned only when the process could not be started or was cancelled.
	Run(ctx context.Context, cmd domain.Command) (*domain.ProcessResult, error)
}
