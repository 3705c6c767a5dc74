// Package operations runs the feature pipeline as a set of dependent steps.
//
// Core components:
//
// Step: one unit of work over the shared OperationState. Steps declare the
// IDs they depend on and are executed in dependency order.
//
// Registry: holds the registered steps, validates their dependencies and
// orders them topologically. Ties keep registration order, so the feature
// steps always run in pipeline order.
//
// OperationState: the dataset being enriched, the run's reference date and
// the per-step status (pending, active, completed, failed, skipped) with
// durations and row counts.
//
// Manager: executes the selected steps sequentially. A failed step skips
// everything that depends on it. Only errors marked retryable, such as
// storage failures during export, are retried.
//
// Example usage:
//
//	manager, err := operations.NewPipelineManager(operations.PipelineDeps{
//		Config: cfg,
//		Files:  files.NewManager(paths, logger),
//		Logger: logger,
//	})
//	if err != nil {
//		return err
//	}
//	resp, err := manager.Execute(ctx, operations.OperationRequest{
//		ReferenceDate: ref,
//	})
package operations
