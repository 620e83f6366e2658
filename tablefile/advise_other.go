//go:build !linux

package tablefile

func adviseAccess(data []byte, p AccessPattern) {}

func populateForWrite(data []byte) {}
