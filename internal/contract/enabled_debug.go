//go:build zbdebug

package contract

// Enabled reports whether precondition checks panic.
const Enabled = true
