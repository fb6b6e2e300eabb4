package main

import (
	"fmt"
	"maps"
	"os"
	"reflect"
	"runtime"
	"slices"

	"git.gammaspectra.live/P2Pool/subtle/ctasm"
	"git.gammaspectra.live/P2Pool/subtle/subtle"
	"git.gammaspectra.live/P2Pool/subtle/utils"
	"github.com/spf13/cobra"
)

func funcName(fn any) string {
	return runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
}

// primitiveSymbols default inspection set, with the number of loop back-edges each may contain
func primitiveSymbols() map[string]int {
	symbols := make(map[string]int)
	for _, fn := range []any{
		subtle.BytesEqual,
		subtle.ByteIsNonZero,
		subtle.ConditionalAssignU8,
		subtle.ConditionalAssignI8,
		subtle.ConditionalAssignU16,
		subtle.ConditionalAssignI16,
		subtle.ConditionalAssignU32,
		subtle.ConditionalAssignU64,
		subtle.ConditionalAssignU128,
		subtle.Uint64IsNonZero,
		subtle.Uint64Equal,
		subtle.Uint128Equal,
		subtle.AbsI8,
		subtle.AbsI16,
	} {
		symbols[funcName(fn)] = 0
	}
	for _, fn := range []any{
		subtle.ArraysEqual,
		subtle.ConditionalAssignBytes32,
		subtle.ConditionalSwapBytes32,
	} {
		symbols[funcName(fn)] = 1
	}
	return symbols
}

func newDisasmCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "disasm [binary] [symbol...]",
		Short: "Inspect compiled functions for conditional branches and variable-latency instructions",
		Long: "Disassembles the given function symbols of an ELF amd64 binary. Without symbols, the\n" +
			"primitives of package subtle are inspected; the binary must link them.\n" +
			"Without a binary, ctcheck inspects itself.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				self, err := os.Executable()
				if err != nil {
					return err
				}
				args = []string{self}
			}

			allowed := make(map[string]int)
			if len(args) > 1 {
				for _, name := range args[1:] {
					allowed[name] = 0
				}
			} else {
				allowed = primitiveSymbols()
			}

			reports, err := ctasm.InspectFile(args[0], slices.Sorted(maps.Keys(allowed))...)
			if err != nil {
				return err
			}

			var failed int
			for _, report := range reports {
				forward, backward := report.Branches()
				if forward+backward > allowed[report.Symbol] || report.VariableLatency() > 0 {
					failed++
					utils.Errorf("disasm", "%s: %d forward, %d backward branches, %d variable-latency instructions", report.Symbol, forward, backward, report.VariableLatency())
					for _, f := range report.Findings {
						utils.Errorf("disasm", "  +%#x %s: %s", f.Offset, f.Kind, f.Instruction)
					}
				} else {
					utils.Logf("disasm", "%s: ok, %d instructions", report.Symbol, report.Instructions)
				}
			}

			if jsonOutput {
				if err := utils.NewJSONEncoder(cmd.OutOrStdout()).Encode(reports); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d functions", errCheckFailed, failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write reports as JSON to stdout")
	return cmd
}
