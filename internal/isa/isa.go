// Package isa reports which wide-vector instruction sets the running CPU
// supports.
//
// Detection runs once at package init via cpuid; the results never change
// for the life of the process.
package isa

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Set names the wide-vector instruction set that the lane kernels target.
type Set string

const (
	SetNone  Set = "none"
	SetAVX2  Set = "avx2"
	SetASIMD Set = "asimd"
)

var detected = detect(runtime.GOARCH)

func detect(arch string) Set {
	switch arch {
	case "amd64":
		if cpuid.CPU.Supports(cpuid.AVX2) {
			return SetAVX2
		}
	case "arm64":
		if cpuid.CPU.Supports(cpuid.ASIMD) {
			return SetASIMD
		}
	}
	return SetNone
}

// WideVector returns the detected instruction set, or SetNone.
func WideVector() Set { return detected }

// HasWideVector reports whether a wide-vector instruction set is available.
func HasWideVector() bool { return detected != SetNone }

// Describe returns a one-line CPU summary for diagnostics.
func Describe() string {
	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = runtime.GOARCH
	}
	return brand + " (" + string(detected) + ")"
}
