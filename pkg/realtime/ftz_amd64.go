package realtime

// MXCSR bit 15 is flush-to-zero, bit 6 is denormals-are-zero.
const ftzBits = 1<<15 | 1<<6

const ftzSupported = true

func getDenormalFlags() uint32
func setDenormalFlags(flags uint32)
