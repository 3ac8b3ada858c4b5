package internal

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// GPU is one CUDA device reported by nvidia-smi
type GPU struct {
	Index int
	Name  string
	UUID  string
}

var gpuLinePattern = regexp.MustCompile(`^GPU (\d+): (.+?)(?: \(UUID: ([^)]+)\))?$`)

// ListGPUs lists CUDA devices via `nvidia-smi -L`
func ListGPUs(ctx context.Context, runner CommandRunner) ([]GPU, error) {
	output, err := runner.Run(ctx, "nvidia-smi", "-L")
	if err != nil {
		return nil, fmt.Errorf("nvidia-smi failed: %w", err)
	}
	return parseGPUList(output), nil
}

func parseGPUList(output []byte) []GPU {
	var gpus []GPU
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		match := gpuLinePattern.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		gpus = append(gpus, GPU{Index: index, Name: match[2], UUID: match[3]})
	}
	return gpus
}

func hasGPU(gpus []GPU, index int) bool {
	for _, gpu := range gpus {
		if gpu.Index == index {
			return true
		}
	}
	return false
}
