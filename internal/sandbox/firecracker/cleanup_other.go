//go:build !linux

package firecracker

// CleanupStaleInstances is a no-op outside Linux; the firecracker variant
// never runs there, so no instance directories can exist to reap.
func CleanupStaleInstances(_ *Paths) {}
