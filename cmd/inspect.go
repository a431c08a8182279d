// =============================================================================
// FEC to CSV Converter - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which decodes a single filing's
// header and cover and counts its body records, without writing any output.
// Useful for checking what a filing contains before converting it, and for
// diagnosing filings that fail to convert.
//
// COMMAND USAGE:
//   fecconvert inspect <filing.fec>
//
// The header is printed after reading only the first line of the file; the
// record counts then stream through the rest. Inspection of a very large
// filing therefore costs one full pass and no memory.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/ginjaninja78/FEC-to-CSV-conversion/internal/fecfile"
	"github.com/spf13/cobra"
)

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect <filing.fec>",
	Short: "Print a filing's header, cover and record counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

// init registers the inspect command with the root command.
func init() {
	rootCmd.AddCommand(inspectCmd)
}

// runInspect decodes one filing and prints what it finds.
func runInspect(path string) error {
	fec, err := fecfile.FromPath(path)
	if err != nil {
		return err
	}
	defer fec.Close()

	// Header: one line of I/O.
	hdr, err := fec.Header()
	if err != nil {
		return err
	}
	sep, _ := fec.Separator()

	fmt.Printf("File:              %s\n", path)
	fmt.Printf("FEC version:       %s\n", hdr.FECVersion)
	fmt.Printf("Field separator:   %s\n", sep)
	if hdr.SoftwareName != "" {
		fmt.Printf("Software:          %s %s\n", hdr.SoftwareName, hdr.SoftwareVersion)
	}
	if hdr.ReportID != "" {
		fmt.Printf("Report ID:         %s (amendment %s)\n", hdr.ReportID, hdr.ReportNumber)
	}

	// Cover: the filing's form line.
	cover, err := fec.Cover()
	if err != nil {
		return err
	}
	fmt.Printf("Form type:         %s\n", cover.FormType)
	if cover.FilerCommitteeID != "" {
		fmt.Printf("Filer committee:   %s\n", cover.FilerCommitteeID)
	}

	// Body: count records per code, skipping (but counting) bad ones.
	counts := make(map[string]int)
	var skipped int
	for {
		rec, err := fec.NextRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		counts[rec.Code()]++
	}

	codes := make([]string, 0, len(counts))
	total := 0
	for code, n := range counts {
		codes = append(codes, code)
		total += n
	}
	sort.Strings(codes)

	fmt.Printf("Body records:      %d", total)
	if skipped > 0 {
		fmt.Printf(" (+%d undecodable)", skipped)
	}
	fmt.Println()
	for _, code := range codes {
		fmt.Printf("  %-8s %d\n", code, counts[code])
	}

	return nil
}
