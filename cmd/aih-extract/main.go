// aih-extract is a debugging tool: it runs the acquisition and extraction
// pipeline on one AIH document and prints the raw text and the resulting
// field map, without the web review step.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/hemoba-digital/fichagen/internal/document"
	"github.com/hemoba-digital/fichagen/internal/extract"
)

var (
	outputFormat  = flag.String("format", "text", "Output format: text, json, csv")
	showRaw       = flag.Bool("raw", false, "Also print the raw acquired text (text format only)")
	lineWindow    = flag.Int("linewindow", extract.DefaultLineWindow, "Lines scanned below a bare label")
	lineTolerance = flag.Float64("linetolerance", document.DefaultLineTolerance, "Line clustering tolerance")
	bandTolerance = flag.Float64("bandtolerance", extract.DefaultBandTolerance, "Spatial band tolerance")
	ocrLangs      = flag.String("ocrlangs", "por+eng", "Tesseract languages for image input")
	help          = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: document path required\n\n")
		printUsage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", path, err)
		os.Exit(1)
	}

	kind, err := document.KindFromName(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	acquirer := document.NewService(0, *lineTolerance, document.NewRecognizer(*ocrLangs))
	doc, err := acquirer.Acquire(data, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (continuing with empty document)\n", err)
	}

	extractor := extract.New(extract.Options{
		LineWindow:    *lineWindow,
		LineTolerance: *lineTolerance,
		BandTolerance: *bandTolerance,
	})
	res := extractor.Extract(doc)

	if err := output(doc, res); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

func output(doc *document.Document, res *extract.Result) error {
	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "csv":
		cw := csv.NewWriter(os.Stdout)
		if err := cw.Write([]string{"campo", "valor", "origem"}); err != nil {
			return err
		}
		for _, key := range sortedKeys(res.Fields) {
			if err := cw.Write([]string{key, res.Fields[key], string(res.Origin[key])}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case "text":
		if *showRaw {
			fmt.Println("--- raw text ---")
			fmt.Println(doc.Raw)
			fmt.Println("--- fields ---")
		}
		if len(res.Fields) == 0 {
			fmt.Println("(no fields extracted)")
			return nil
		}
		for _, key := range sortedKeys(res.Fields) {
			fmt.Printf("%-24s %-10s %s\n", key, res.Origin[key], res.Fields[key])
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", *outputFormat)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printHelp() {
	fmt.Println("aih-extract - extract AIH intake fields from a PDF or photo")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
}

func printUsage() {
	fmt.Println("Usage: aih-extract [options] <document.pdf|photo.jpg>")
}
