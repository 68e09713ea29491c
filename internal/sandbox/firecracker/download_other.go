//go:build !linux

package firecracker

import (
	"fmt"
	"io"
)

func EnsureFirecracker(_ *Paths, _ io.Writer) error {
	return fmt.Errorf("firecracker sandbox requires Linux")
}

func EnsureKernel(_ *Paths, _ io.Writer) error {
	return fmt.Errorf("firecracker sandbox requires Linux")
}
