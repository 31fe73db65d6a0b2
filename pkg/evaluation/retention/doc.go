// Package retention enforces evaluation history retention: a pruner that
// deletes results older than the configured window, optionally archiving
// them to JSON first, and a cron-driven scheduler that runs the pruner
// automatically.
package retention
