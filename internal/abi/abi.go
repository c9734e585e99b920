// Package abi is the catalogue of calling conventions accepted in `extern "..."`.
package abi

// Abi is a calling convention.
type Abi uint8

const (
	Rust Abi = iota
	C
	CUnwind
	Cdecl
	Stdcall
	Fastcall
	Vectorcall
	Thiscall
	Aapcs
	Win64
	SysV64
	PtxKernel
	Msp430Interrupt
	X86Interrupt
	AmdGpuKernel
	EfiApi
	AvrInterrupt
	AvrNonBlockingInterrupt
	CCmseNonSecureCall
	Wasm
	System
	SystemUnwind
	RustIntrinsic
	RustCall
	PlatformIntrinsic
	Unadjusted
)

// Default is used when no convention is written or the written one is invalid.
const Default = Rust

// Implicit is what a bare `extern` means.
const Implicit = C

var names = [...]string{
	Rust:                    "Rust",
	C:                       "C",
	CUnwind:                 "C-unwind",
	Cdecl:                   "cdecl",
	Stdcall:                 "stdcall",
	Fastcall:                "fastcall",
	Vectorcall:              "vectorcall",
	Thiscall:                "thiscall",
	Aapcs:                   "aapcs",
	Win64:                   "win64",
	SysV64:                  "sysv64",
	PtxKernel:               "ptx-kernel",
	Msp430Interrupt:         "msp430-interrupt",
	X86Interrupt:            "x86-interrupt",
	AmdGpuKernel:            "amdgpu-kernel",
	EfiApi:                  "efiapi",
	AvrInterrupt:            "avr-interrupt",
	AvrNonBlockingInterrupt: "avr-non-blocking-interrupt",
	CCmseNonSecureCall:      "C-cmse-nonsecure-call",
	Wasm:                    "wasm",
	System:                  "system",
	SystemUnwind:            "system-unwind",
	RustIntrinsic:           "rust-intrinsic",
	RustCall:                "rust-call",
	PlatformIntrinsic:       "platform-intrinsic",
	Unadjusted:              "unadjusted",
}

var byName = func() map[string]Abi {
	m := make(map[string]Abi, len(names))
	for i, n := range names {
		m[n] = Abi(i)
	}
	return m
}()

// Lookup finds a convention by its exact (case-sensitive) spelling.
func Lookup(name string) (Abi, bool) {
	a, ok := byName[name]
	return a, ok
}

// AllNames lists every valid spelling in catalogue order.
func AllNames() []string {
	out := make([]string, len(names))
	copy(out, names[:])
	return out
}

func (a Abi) String() string {
	if int(a) < len(names) {
		return names[a]
	}
	return "?"
}
