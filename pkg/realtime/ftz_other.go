//go:build !amd64

package realtime

const ftzBits = 0

const ftzSupported = false

func getDenormalFlags() uint32     { return 0 }
func setDenormalFlags(flags uint32) {}
