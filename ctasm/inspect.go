// Package ctasm inspects compiled functions for instructions that can make their
// execution time depend on the data they process.
//
// Only ELF amd64 binaries are supported. Each requested function symbol is
// disassembled and every conditional branch and variable-latency instruction
// is reported. A function written to be constant-time should have none, except
// for back-edges of loops with a fixed iteration count.
package ctasm

import (
	"debug/elf"
	"errors"
	"fmt"
	"slices"

	"git.gammaspectra.live/P2Pool/subtle/utils"
	"golang.org/x/arch/x86/x86asm"
)

var (
	ErrUnsupportedArch = errors.New("unsupported architecture")
	ErrSymbolNotFound  = errors.New("symbol not found")
)

type FindingKind int

const (
	// ForwardBranch conditional jump to a higher address
	ForwardBranch = FindingKind(iota)
	// BackwardBranch conditional jump to a lower address, usually a loop back-edge
	BackwardBranch
	// VariableLatency instruction whose latency depends on its operands
	VariableLatency
)

func (k FindingKind) String() string {
	switch k {
	case ForwardBranch:
		return "forward-branch"
	case BackwardBranch:
		return "backward-branch"
	case VariableLatency:
		return "variable-latency"
	default:
		return fmt.Sprintf("FindingKind(%d)", int(k))
	}
}

func (k FindingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FindingKind) UnmarshalText(text []byte) error {
	for _, kind := range []FindingKind{ForwardBranch, BackwardBranch, VariableLatency} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown finding kind %q", text)
}

type Finding struct {
	Kind FindingKind `json:"kind"`
	// Offset from the start of the function
	Offset      uint64 `json:"offset"`
	Instruction string `json:"instruction"`
}

type Report struct {
	Symbol       string    `json:"symbol"`
	Address      uint64    `json:"address"`
	Size         uint64    `json:"size"`
	Instructions int       `json:"instructions"`
	Findings     []Finding `json:"findings,omitempty"`
}

// Branches counts conditional branches by direction
func (r Report) Branches() (forward, backward int) {
	for _, f := range r.Findings {
		switch f.Kind {
		case ForwardBranch:
			forward++
		case BackwardBranch:
			backward++
		}
	}
	return forward, backward
}

func (r Report) VariableLatency() (n int) {
	for _, f := range r.Findings {
		if f.Kind == VariableLatency {
			n++
		}
	}
	return n
}

// InspectFile opens the ELF binary at path and inspects the given function symbols.
func InspectFile(path string, symbols ...string) ([]Report, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Inspect(f, symbols...)
}

// Inspect disassembles the given function symbols of f. Reports are returned in the order symbols were given.
func Inspect(f *elf.File, symbols ...string) ([]Report, error) {
	if f.Machine != elf.EM_X86_64 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArch, f.Machine)
	}

	table, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		return nil, fmt.Errorf("%w: %w", ErrSymbolNotFound, err)
	} else if err != nil {
		return nil, fmt.Errorf("read symbols: %w", err)
	}

	reports := make([]Report, 0, len(symbols))
	for _, name := range symbols {
		code, sym, err := symbolCode(f, table, name)
		if err != nil {
			return nil, err
		}
		report, err := inspectCode(name, sym.Value, code)
		if err != nil {
			return nil, err
		}
		utils.Debugf("ctasm", "%s: %d bytes, %d instructions, %d findings", name, len(code), report.Instructions, len(report.Findings))
		reports = append(reports, report)
	}
	return reports, nil
}

func symbolCode(f *elf.File, table []elf.Symbol, name string) ([]byte, elf.Symbol, error) {
	i := slices.IndexFunc(table, func(s elf.Symbol) bool {
		return s.Name == name && elf.ST_TYPE(s.Info) == elf.STT_FUNC
	})
	if i == -1 {
		return nil, elf.Symbol{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	sym := table[i]

	if int(sym.Section) >= len(f.Sections) {
		return nil, sym, fmt.Errorf("%w: %s has no section", ErrSymbolNotFound, name)
	}
	section := f.Sections[sym.Section]

	size := sym.Size
	if size == 0 {
		size = nextSymbolAddress(table, sym, section) - sym.Value
	}

	data, err := section.Data()
	if err != nil {
		return nil, sym, fmt.Errorf("read section %s: %w", section.Name, err)
	}
	start := sym.Value - section.Addr
	if start+size > uint64(len(data)) {
		return nil, sym, fmt.Errorf("%w: %s lies outside of %s", ErrSymbolNotFound, name, section.Name)
	}
	sym.Size = size
	return data[start : start+size], sym, nil
}

// nextSymbolAddress the lowest symbol address above sym in the same section, or the section end
func nextSymbolAddress(table []elf.Symbol, sym elf.Symbol, section *elf.Section) uint64 {
	next := section.Addr + section.Size
	for _, s := range table {
		if s.Section == sym.Section && s.Value > sym.Value && s.Value < next {
			next = s.Value
		}
	}
	return next
}

func inspectCode(name string, address uint64, code []byte) (Report, error) {
	report := Report{
		Symbol:  name,
		Address: address,
		Size:    uint64(len(code)),
	}

	for offset := 0; offset < len(code); {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil {
			// alignment padding after the final RET decodes as garbage on some toolchains
			if isPadding(code[offset:]) {
				break
			}
			return report, fmt.Errorf("decode %s+%#x: %w", name, offset, err)
		}
		report.Instructions++

		if kind, ok := classify(inst); ok {
			if kind == ForwardBranch {
				if rel, ok := inst.Args[0].(x86asm.Rel); ok && rel < 0 {
					kind = BackwardBranch
				}
			}
			report.Findings = append(report.Findings, Finding{
				Kind:        kind,
				Offset:      uint64(offset),
				Instruction: x86asm.GoSyntax(inst, address+uint64(offset), nil),
			})
		}
		offset += inst.Len
	}
	return report, nil
}

func isPadding(code []byte) bool {
	for _, b := range code {
		// INT3 and zero fill
		if b != 0xcc && b != 0x00 {
			return false
		}
	}
	return true
}

// classify reports conditional branches as ForwardBranch, direction is resolved by the caller
func classify(inst x86asm.Inst) (FindingKind, bool) {
	switch inst.Op {
	case x86asm.JA, x86asm.JAE, x86asm.JB, x86asm.JBE,
		x86asm.JE, x86asm.JNE, x86asm.JG, x86asm.JGE, x86asm.JL, x86asm.JLE,
		x86asm.JO, x86asm.JNO, x86asm.JP, x86asm.JNP, x86asm.JS, x86asm.JNS,
		x86asm.JCXZ, x86asm.JECXZ, x86asm.JRCXZ,
		x86asm.LOOP, x86asm.LOOPE, x86asm.LOOPNE:
		return ForwardBranch, true
	case x86asm.DIV, x86asm.IDIV:
		return VariableLatency, true
	default:
		return 0, false
	}
}
