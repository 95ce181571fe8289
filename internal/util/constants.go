// Package util provides small formatting helpers and buffer pools shared by
// the updater plugin, the CLI progress line and the GUI progress dialog.
//
// All utilities are stateless (or internally synchronised) and thread-safe.
package util

// Size constants for byte calculations
const (
	KiB = 1 << 10 // 1024
	MiB = 1 << 20 // 1,048,576
	GiB = 1 << 30 // 1,073,741,824
	TiB = 1 << 40 // 1,099,511,627,776
)

// ChunkSize is the read size used when streaming update artifacts.
const ChunkSize = 32 * KiB

// MaxArtifactSize caps how much of an update artifact is read into memory.
const MaxArtifactSize = 512 * MiB
