//go:build !debug

package canvas

import "fmt"

// assertf reports a broken invariant. Release builds log it and return
// false so the caller can refuse the action.
func (c *Canvas) assertf(ok bool, format string, args ...any) bool {
	if !ok {
		c.logf("canvas: invariant violated: %s", fmt.Sprintf(format, args...))
	}
	return ok
}
