package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscribe/internal"
)

// devicesCmd lists the CUDA devices usable with --gpu-id
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List CUDA devices available for --gpu-id",
	RunE: func(cmd *cobra.Command, args []string) error {
		gpus, err := internal.ListGPUs(cmd.Context(), &internal.DefaultCommandRunner{})
		if err != nil {
			return fmt.Errorf("%w (transcription will run on CPU)", err)
		}
		if len(gpus) == 0 {
			fmt.Println("No CUDA devices found, transcription will run on CPU")
			return nil
		}

		for _, gpu := range gpus {
			marker := " "
			if gpu.Index == config.GPUID {
				marker = "*"
			}
			fmt.Printf("%s %d: %s", marker, gpu.Index, gpu.Name)
			if gpu.UUID != "" {
				fmt.Printf(" (%s)", gpu.UUID)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
