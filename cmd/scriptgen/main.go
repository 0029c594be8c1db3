// scriptgen - generates Go script builders from tokenized script items
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	manifestDir := flag.String("manifest", ".", "Directory to search (upwards) for scriptgen.toml")
	output := flag.String("o", "", "Output file (overrides the manifest; stdout for -items when empty)")
	runtime := flag.String("runtime", "", "Import path of the script runtime package")
	itemsFile := flag.String("items", "", "Generate from a single CBOR item stream instead of a manifest")
	name := flag.String("name", "", "Script name for -items")
	pkg := flag.String("package", "", "Go package name for -items")
	dump := flag.Bool("dump", false, "Print construction expressions instead of Go source")
	spans := flag.Bool("spans", false, "With -dump, list each step with the item location it came from")
	listOpcodes := flag.Bool("opcodes", false, "List the opcode catalog and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scriptgen [options]\n\n")
		fmt.Fprintf(os.Stderr, "Generates Go functions that build Bitcoin scripts from scriptgen.toml.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scriptgen                          # generate from ./scriptgen.toml\n")
		fmt.Fprintf(os.Stderr, "  scriptgen -dump                    # show construction expressions\n")
		fmt.Fprintf(os.Stderr, "  scriptgen -dump -spans             # ...with item locations\n")
		fmt.Fprintf(os.Stderr, "  scriptgen -items lock.cbor -name lock -package scripts\n")
		fmt.Fprintf(os.Stderr, "  scriptgen -opcodes                 # list known opcodes\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	opts := options{
		manifestDir: *manifestDir,
		output:      *output,
		runtime:     *runtime,
		itemsFile:   *itemsFile,
		name:        *name,
		pkg:         *pkg,
		dump:        *dump,
		spans:       *spans,
	}

	var err error
	switch {
	case *listOpcodes:
		err = writeOpcodes(os.Stdout)
	case *itemsFile != "":
		err = runItems(opts, os.Stdout)
	default:
		err = runManifest(opts, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
