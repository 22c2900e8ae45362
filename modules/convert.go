package modules

import (
	"bytes"
	"debug/pe"
	"fmt"
	"strings"

	"github.com/Binject/go-donut/donut"
	"github.com/sirupsen/logrus"

	"stagecraft/shared"
)

// donutArch maps a stagecraft architecture string to the Donut
// architecture selector. Unknown values fall back to X84, which
// supports both 32- and 64-bit targets at the cost of larger output.
func donutArch(arch string) donut.DonutArch {
	switch strings.ToLower(arch) {
	case shared.ArchX86, "386":
		return donut.X32
	case shared.ArchX64, "amd64":
		return donut.X64
	case shared.ArchARM64:
		return donut.X64
	default:
		logrus.Warnf("unknown architecture %q, using X84 (32+64 bit) shellcode", arch)
		return donut.X84
	}
}

// peIsDLL is a best-effort check of the PE characteristics flags.
func peIsDLL(raw []byte) bool {
	f, err := pe.NewFile(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	defer f.Close()
	return f.FileHeader.Characteristics&pe.IMAGE_FILE_DLL != 0
}

// ConvertPE turns a native PE (EXE or DLL) into position-independent
// shellcode suitable for use as a Single payload's raw buffer. Command
// line arguments for the embedded entrypoint are passed through to the
// Donut loader.
func ConvertPE(raw []byte, args []string, arch string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("convert: no PE bytes provided")
	}

	cfg := donut.DefaultConfig()
	cfg.Arch = donutArch(arch)
	cfg.ExitOpt = 2 // terminate the host process when the module returns
	cfg.Thread = 1  // run the entrypoint as a thread
	cfg.Type = donut.DONUT_MODULE_EXE
	if peIsDLL(raw) {
		cfg.Type = donut.DONUT_MODULE_DLL
	}
	if len(args) > 0 {
		cfg.Parameters = strings.Join(args, " ")
	}

	logrus.Infof("converting %d byte PE to shellcode (arch %s)", len(raw), arch)

	sc, err := donut.ShellcodeFromBytes(bytes.NewBuffer(raw), cfg)
	if err != nil {
		return nil, fmt.Errorf("donut conversion failed: %w", err)
	}

	out := sc.Bytes()
	logrus.Infof("donut produced %d bytes of shellcode (%.2fx PE size)",
		len(out), float64(len(out))/float64(len(raw)))
	return out, nil
}
