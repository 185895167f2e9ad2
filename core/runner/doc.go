// Package runner drives certificate reconciliation passes.
//
// A pass loads the YAML configuration from disk, lists the certificates the
// store currently holds, plans which ones need to be created or renewed, and
// hands the resulting queue to a renewal orchestrator. The configuration is
// re-read on every pass, so edits take effect without a restart.
//
// Once executes a single pass and reports the outcome through its return
// values, which suits cron-style invocations. Daemon repeats passes forever
// with a fixed 24 hour sleep between them, isolates each pass from failures
// and panics in the previous one, and emits the outcome of every pass
// through an optional Monitor.
//
//	run, err := runner.New(configPath, store, newSigner,
//		runner.WithLogger(logger),
//		runner.WithMonitor(monitor),
//	)
//	if err != nil {
//		return err
//	}
//	return run.Daemon(ctx)
//
// The signer is built per pass through a SignerFactory because it derives
// from the freshly loaded configuration (ACME directory, account key).
package runner
