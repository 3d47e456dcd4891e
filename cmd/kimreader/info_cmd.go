package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fstark/kimreader/pkg/ingest"
)

// infoCmd reports a recording's detected container format, sample rate,
// channel count and duration, without attempting a decode. Grounded on the
// teacher's own info subcommand and converter.GetInfo
// (cmd/audioconv/main.go's showFileInfo).
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Show a recording's format, sample rate, channels and duration",
	Args:  cobra.ExactArgs(1),
	RunE:  showFileInfo,
}

func showFileInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := ingest.DetectFormat(path)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("kimreader info: open %s: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("kimreader info: stat %s: %w", path, err)
	}

	info, err := ingest.GetInfo(file, format)
	if err != nil {
		return fmt.Errorf("kimreader info: %w", err)
	}

	fmt.Printf("File:        %s\n", path)
	fmt.Printf("Size:        %d bytes\n", stat.Size())
	fmt.Printf("Format:      %s\n", info.Format)
	fmt.Printf("Sample rate: %d Hz\n", info.SampleRate)
	fmt.Printf("Channels:    %d\n", info.Channels)
	fmt.Printf("Duration:    %.2fs\n", info.Duration)
	return nil
}
