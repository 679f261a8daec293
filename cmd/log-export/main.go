// Command log-export converts the UTF-8 conversation CSV to Shift_JIS for
// spreadsheet tools on Japanese Windows. Unencodable runes are replaced; the
// source log is never modified.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kokorolab/exposure-chat/exposure"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	n, err := exposure.ExportShiftJIS(cfg.InPath, cfg.OutPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "bytes_read=%d out=%s\n", n, cfg.OutPath)
}
