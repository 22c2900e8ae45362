package shared

// Architecture identifiers used to match payloads against encoder and
// NOP modules. Plain strings so module metadata stays declarative.
const (
	ArchX86   = "x86"
	ArchX64   = "x64"
	ArchARM   = "arm"
	ArchARM64 = "arm64"
	ArchMIPS  = "mips"
)

// Output formats understood by the generate pipeline.
const (
	FormatRaw = "raw"
	FormatHex = "hex"
)
