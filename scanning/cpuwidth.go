package scanning

import "golang.org/x/sys/cpu"

// DetectMaxVectorWidth probes the running CPU's SIMD feature bits and
// returns the widest lane width (in bytes) the planner may hand to a
// vector scanner: 64 for AVX-512F, 32 for AVX2, 16 for SSE2 or ARM64
// ASIMD (NEON), 0 if none of these is available. The scanner bodies themselves never use these instruction
// sets directly -- they are portable Go loops -- this only bounds how
// many bytes the planner groups per comparison.
func DetectMaxVectorWidth() int {
	switch {
	case cpu.X86.HasAVX512F:
		return 64
	case cpu.X86.HasAVX2:
		return 32
	case cpu.X86.HasSSE2:
		return 16
	case cpu.ARM64.HasASIMD:
		return 16
	default:
		return 0
	}
}
