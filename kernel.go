package rainbowtab

import (
	"fmt"

	taberrors "github.com/tamirms/rainbowtab/errors"
)

// Kernel selects how batch operations evaluate their lanes.
type Kernel uint8

const (
	// KernelVector processes fixed-width lane groups and requires a
	// wide-vector instruction set (AVX2 on amd64, ASIMD on arm64). Built
	// with GOEXPERIMENT=simd on amd64, the lanes are AVX2 registers.
	KernelVector Kernel = iota

	// KernelScalar processes one element at a time. Always available.
	KernelScalar
)

// String returns the kernel name.
func (k Kernel) String() string {
	switch k {
	case KernelVector:
		return "vector"
	case KernelScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// wideVectorSupported is a variable so tests can simulate CPUs without
// the wide-vector instruction set.
var wideVectorSupported = cpuHasWideVector

// DetectKernel returns the best kernel available on this CPU.
// Callers run it once and pass the result via WithKernel; the library never
// downgrades a requested kernel on its own.
func DetectKernel() Kernel {
	if wideVectorSupported() {
		return KernelVector
	}
	return KernelScalar
}

// checkKernel returns ErrUnsupportedHardware if k cannot run on this CPU.
func checkKernel(k Kernel) error {
	switch k {
	case KernelScalar:
		return nil
	case KernelVector:
		if !wideVectorSupported() {
			return fmt.Errorf("%s kernel: %w", k, taberrors.ErrUnsupportedHardware)
		}
		return nil
	default:
		return fmt.Errorf("unknown kernel %d", k)
	}
}
