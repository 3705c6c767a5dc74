// Package shared holds helpers used across the pipeline packages that belong
// to no single layer.
//
// The testutil subpackage captures slog output so tests can assert on what a
// step logged:
//
//	func TestStep(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    runStep(logger)
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "step completed")
//	}
package shared
