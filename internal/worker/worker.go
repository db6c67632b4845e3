package worker

import (
	"context"
)

// Worker - фоновый обработчик, управляемый WorkerManager
type Worker interface {
	// Start блокируется до Stop или отмены ctx
	Start(ctx context.Context) error

	Stop() error

	Name() string
}
