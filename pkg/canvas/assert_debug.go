//go:build debug

package canvas

import "fmt"

// assertf panics on a broken invariant in debug builds.
func (c *Canvas) assertf(ok bool, format string, args ...any) bool {
	if !ok {
		panic(fmt.Sprintf("canvas: invariant violated: "+format, args...))
	}
	return ok
}
