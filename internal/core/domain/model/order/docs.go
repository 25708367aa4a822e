// Package order provides the read-only order view consumed by dispatch and by order
// outcome recording.
package order
