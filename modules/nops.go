package modules

import (
	"fmt"

	"stagecraft/shared"
)

// x86 single-byte instructions that behave as NOPs for sled purposes.
// 0x90 first; the xchg/dec/inc family covers the common case where
// 0x90 itself is a bad character.
var x86NopBytes = []byte{
	0x90, // nop
	0x97, // xchg eax,edi
	0x96, // xchg eax,esi
	0x95, // xchg eax,ebp
	0x93, // xchg eax,ebx
	0x92, // xchg eax,edx
	0x91, // xchg eax,ecx
	0x99, // cdq
	0x4d, // dec ebp
	0x48, // dec eax
	0x47, // inc edi
	0x4f, // dec edi
	0x40, // inc eax
	0x41, // inc ecx
	0x37, // aaa
	0x3f, // aas
	0xf8, // clc
	0xfc, // cld
	0xf9, // stc
	0xfd, // std
}

// X86Sled builds simple x86 NOP sleds out of single-byte no-op
// instructions, skipping candidates that appear in the bad character
// set.
type X86Sled struct{}

func (X86Sled) Name() string { return "x86/simple" }

func (X86Sled) Arch() []string { return []string{shared.ArchX86, shared.ArchX64} }

// Sled returns length bytes of the first usable single-byte NOP.
func (X86Sled) Sled(length int, badchars []byte) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("x86/simple: negative sled length %d", length)
	}
	if length == 0 {
		return []byte{}, nil
	}
	for _, op := range x86NopBytes {
		if contains(badchars, op) {
			continue
		}
		sled := make([]byte, length)
		for i := range sled {
			sled[i] = op
		}
		return sled, nil
	}
	return nil, fmt.Errorf("x86/simple: every NOP candidate is a bad character")
}

func init() {
	Default.AddNop(100, X86Sled{})
}
