package main

import (
	"runtime"

	"git.gammaspectra.live/P2Pool/subtle/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
)

type cpuFeature struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
	// Note why the feature matters for constant-time code
	Note string `json:"note"`
}

func cpuFeatures() []cpuFeature {
	switch runtime.GOARCH {
	case "amd64", "386":
		return []cpuFeature{
			{"BMI2", cpu.X86.HasBMI2, "MULX, constant-latency wide multiplication used by field arithmetic"},
			{"ADX", cpu.X86.HasADX, "ADCX/ADOX carry chains"},
			{"AVX2", cpu.X86.HasAVX2, "vectorised field arithmetic"},
			{"AES", cpu.X86.HasAES, "table-free AES"},
			{"PCLMULQDQ", cpu.X86.HasPCLMULQDQ, "table-free GHASH"},
		}
	case "arm64":
		return []cpuFeature{
			{"AES", cpu.ARM64.HasAES, "table-free AES"},
			{"PMULL", cpu.ARM64.HasPMULL, "table-free GHASH"},
			{"SHA2", cpu.ARM64.HasSHA2, "hardware SHA-256"},
			{"ATOMICS", cpu.ARM64.HasATOMICS, "LSE atomics"},
		}
	default:
		return nil
	}
}

func newCPUCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "cpu",
		Short: "Report CPU features relevant to constant-time execution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			features := cpuFeatures()
			if jsonOutput {
				return utils.NewJSONEncoder(cmd.OutOrStdout()).Encode(features)
			}
			utils.Logf("cpu", "%s/%s, %d CPUs", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
			for _, f := range features {
				utils.Logf("cpu", "%-10s %-5t %s", f.Name, f.Present, f.Note)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write features as JSON to stdout")
	return cmd
}
