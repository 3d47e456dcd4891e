package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fstark/kimreader/pkg/ingest"
	"github.com/fstark/kimreader/pkg/tape"
	"github.com/fstark/kimreader/pkg/tapewav"
)

var (
	encodeID      uint8
	encodeAddr    uint16
	encodePayload string
	encodeOutput  string
	encodePreview string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Synthesise a KIM-1 tape WAV from a memory image",
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().Uint8Var(&encodeID, "id", 0, "record id byte")
	encodeCmd.Flags().Uint16Var(&encodeAddr, "addr", 0, "load address")
	encodeCmd.Flags().StringVar(&encodePayload, "payload", "", "payload bytes, hex-encoded")
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "output.wav", "output WAV path")
	encodeCmd.Flags().StringVar(&encodePreview, "preview-mp3", "", "also write an MP3 preview to this path")
}

func runEncode(cmd *cobra.Command, args []string) error {
	payload, err := hex.DecodeString(encodePayload)
	if err != nil {
		return fmt.Errorf("kimreader encode: --payload is not valid hex: %w", err)
	}

	rec := tape.Record{
		ID:      encodeID,
		Addr:    encodeAddr,
		Payload: append([]byte{encodeID, byte(encodeAddr), byte(encodeAddr >> 8)}, payload...),
	}
	rec.Checksum = rec.ComputeChecksum()

	samples := tape.EncodeWAVSamples(rec)

	out, err := os.Create(encodeOutput)
	if err != nil {
		return fmt.Errorf("kimreader encode: create %s: %w", encodeOutput, err)
	}
	defer out.Close()
	if err := tapewav.Write(out, samples, 44100); err != nil {
		return fmt.Errorf("kimreader encode: write WAV: %w", err)
	}

	if encodePreview != "" {
		previewFile, err := os.Create(encodePreview)
		if err != nil {
			return fmt.Errorf("kimreader encode: create %s: %w", encodePreview, err)
		}
		defer previewFile.Close()
		if err := ingest.PreviewMP3(previewFile, samples, 44100); err != nil {
			return fmt.Errorf("kimreader encode: write MP3 preview: %w", err)
		}
	}

	return nil
}
