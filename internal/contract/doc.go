// Package contract provides debug-only precondition checks.
//
// Builds tagged zbdebug turn a violated precondition into a panic so that
// programming errors surface at the call site. Regular builds compile the
// checks to no-ops; callers still return an explicit error for the violation,
// so behavior in release builds is defined rather than undefined.
//
//	go test -tags zbdebug ./...
package contract
