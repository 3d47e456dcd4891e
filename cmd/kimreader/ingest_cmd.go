package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fstark/kimreader/pkg/ingest"
	"github.com/fstark/kimreader/pkg/tapewav"
)

var ingestOutput string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Normalize a FLAC, MP3 or OGG recording into the canonical mono 8-bit WAV kimreader decodes",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "", "output WAV path (default: input name with .wav)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := ingest.DetectFormat(path)
	if err != nil {
		return err
	}
	if format == ingest.FormatWAV {
		return fmt.Errorf("kimreader ingest: %s is already a WAV, nothing to normalize", path)
	}

	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("kimreader ingest: open %s: %w", path, err)
	}
	defer in.Close()

	samples, rate, err := ingest.Decode(in, format)
	if err != nil {
		return fmt.Errorf("kimreader ingest: decode %s: %w", path, err)
	}

	outPath := ingestOutput
	if outPath == "" {
		ext := filepath.Ext(path)
		outPath = strings.TrimSuffix(path, ext) + ".wav"
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("kimreader ingest: create %s: %w", outPath, err)
	}
	defer out.Close()

	return tapewav.Write(out, samples, rate)
}
