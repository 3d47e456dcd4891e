// kimreader recovers KIM-1 memory images from cassette tape recordings, and
// can synthesise a tape recording from a memory image.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fstark/kimreader/pkg/tape"
)

var (
	version   = "0.1.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var (
	smooth        int
	silent        bool
	verbose       bool
	patch         string
	bitstream     bool
	bytestream    int
	bytestreamSet bool
	output        string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "kimreader [file.wav]",
	Short:   "Recover KIM-1 memory images from cassette tape recordings",
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDecode,
}

func init() {
	// The original tool prints its usage to stderr and exits nonzero on
	// --help rather than treating it as a successful invocation; match
	// that instead of cobra's default exit(0) help.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprint(os.Stderr, cmd.UsageString())
		os.Exit(1)
	})

	rootCmd.Flags().IntVar(&smooth, "smooth", 0, "conditioner radius")
	rootCmd.Flags().BoolVar(&silent, "silent", true, "suppress per-bit trace")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "extra diagnostics")
	rootCmd.Flags().StringVar(&patch, "patch", "", "string over {0,1,x} applied cyclically to Fixes")
	rootCmd.Flags().BoolVar(&bitstream, "bitstream", false, "dump the bitstream as 0/1 characters")
	rootCmd.Flags().IntVar(&bytestream, "bytestream", 0, "dump the bitstream as a hex+ASCII table, skipping OFFSET bits")
	rootCmd.Flags().StringVar(&output, "output", "", "format of stdout output when a record is recovered: data|kim|bits|wav")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	path := "input.wav"
	if len(args) > 0 {
		path = args[0]
	}
	bytestreamSet = cmd.Flags().Changed("bytestream")

	records, bs, err := decodeFile(path)
	if err != nil {
		return err
	}

	// Materialise with every Fix bit set to 1: the placeholder value a
	// still-unresolved Fix carries (bitstream.go's Patch doc), matching
	// the original dump_binary/dump_hexa printing bits_ before any patch
	// or enumeration is applied.
	allFixesOne := bs.FixCount() - 1
	if bitstream {
		tape.DumpBinary(os.Stdout, bs.Materialise(allFixesOne))
	}
	if bytestreamSet {
		tape.DumpHex(os.Stdout, bs.Materialise(allFixesOne), bytestream)
	}

	if len(records) == 0 {
		return fmt.Errorf("kimreader: no record recovered")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "recovered %d distinct record(s)\n", len(records))
	}

	return writeOutput(os.Stdout, records[0])
}
