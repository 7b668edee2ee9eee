package contract

import "fmt"

// Require panics with a formatted message when cond is false and checks are enabled.
func Require(cond bool, format string, args ...any) {
	if !Enabled || cond {
		return
	}
	panic(fmt.Sprintf("contract violation: "+format, args...))
}
