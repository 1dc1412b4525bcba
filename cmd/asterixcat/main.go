// Command asterixcat wires catalogue loading, transport selection, and the
// emitter together: a small main package in the teacher's examples/client,
// examples/server shape, reading flags with pflag per doismellburning's
// appserver.go rather than the standard library's flag package.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/asterixgo/asterix"
	"github.com/asterixgo/asterix/schema"
	"github.com/asterixgo/asterix/transport"
)

func main() {
	var (
		cataloguePath = pflag.String("catalogue", "catalogue", "directory of category XML schema files")
		categories    = pflag.String("categories", "all", "comma-separated category numbers to load, or \"all\"")
		filterSpec    = pflag.String("filter", "", "filter_spec: comma-separated CATnnn/itemID[:FIELD] entries")
		format        = pflag.String("format", "text", "output format: text, compact-json, human-json, extensive-json, compact-xml, human-xml, eout")
		logLevel      = pflag.String("log-level", "error", "diagnostic log level: silent, error, warn, debug")
		verbose       = pflag.Bool("verbose", false, "set the verbose config flag (extensive-json includes descriptions/hex either way)")
		hdlc          = pflag.Bool("hdlc", false, "treat --input as one HDLC frame (01 03 header + CRC-16-CCITT) instead of a plain block file")
		help          = pflag.BoolP("help", "h", false, "display help text")
	)
	pflag.StringP("input", "i", "", "path to a file of concatenated ASTERIX data blocks (required)")
	input := pflag.Lookup("input")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "asterixcat - decode an ASTERIX byte stream and render it as text/JSON/XML\n\n")
		fmt.Fprintf(os.Stderr, "Usage: asterixcat --catalogue DIR --input FILE [OPTIONS]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}
	if input.Value.String() == "" {
		fmt.Fprintln(os.Stderr, "asterixcat: --input is required")
		pflag.Usage()
		os.Exit(1)
	}

	lg := logrus.New()
	lg.SetLevel(parseLogLevel(*logLevel))
	asterix.SetLogger(lg)
	tracer := asterix.NewTracer(lg)

	cfg := asterix.NewConfig().
		WithCataloguePath(*cataloguePath).
		WithOutputFormat(*format).
		WithFilterSpec(*filterSpec).
		WithVerbose(*verbose)
	if *categories != "" && *categories != "all" {
		cfg.WithCategories(parseCategoryList(*categories))
	}

	cat := asterix.NewCatalogue()
	cat.SetTracer(tracer)
	if err := schema.LoadDirectory(cat, cfg.CataloguePath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "asterixcat: loading catalogue: %v\n", err)
		os.Exit(1)
	}

	var filter *asterix.Filter
	if cfg.FilterSpec != "" {
		f, err := asterix.ParseFilterSpec(cfg.FilterSpec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "asterixcat: parsing filter_spec: %v\n", err)
			os.Exit(1)
		}
		f.Apply(cat)
		filter = f
	}

	data, err := readInput(input.Value.String(), *hdlc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asterixcat: %v\n", err)
		os.Exit(1)
	}

	emitter := &asterix.Emitter{
		Tracer:    tracer,
		Catalogue: cat,
		Format:    cfg.ResolveOutputFormat(),
		Filter:    filter,
		Verbose:   cfg.Verbose,
	}

	// The core has no clock of its own (spec.md §5 "Cancellation &
	// timeouts"): it is fed a byte slice and a timestamp by whichever
	// transport shim produced it. A file read has no per-block capture
	// time, so asterixcat stamps the whole read with the moment it was
	// consumed.
	timestamp := float64(time.Now().UnixNano()) / 1e9

	out, err := emitter.Render(data, timestamp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asterixcat: rendering: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)

	if anyBlockFailed(emitter, data, timestamp) {
		os.Exit(2)
	}
}

// readInput loads the raw bytes asterix.Emitter.DecodeAll expects: either
// the plain concatenated-block file as-is, or (with --hdlc) the payload
// stripped out of a single 01-03-headered HDLC frame.
func readInput(path string, hdlc bool) ([]byte, error) {
	raw, err := transport.ReadBlocksFile(path)
	if err != nil {
		return nil, err
	}
	if !hdlc {
		return raw, nil
	}
	payload, err := transport.DecodeHDLCFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding HDLC frame: %w", err)
	}
	return payload, nil
}

// anyBlockFailed reruns just the decode side (cheap: catalogue lookups are
// read-only) to report a non-zero exit code whenever any block or record
// came back with FormatOK=false, per spec.md §7 "the exit code of a batch
// tool reflects whether any record failed".
func anyBlockFailed(e *asterix.Emitter, data []byte, timestamp float64) bool {
	for _, blk := range e.DecodeAll(data, timestamp) {
		if !blk.FormatOK {
			return true
		}
		for _, rec := range blk.Records {
			if !rec.FormatOK {
				return true
			}
		}
	}
	return false
}

func parseLogLevel(name string) logrus.Level {
	switch name {
	case "silent":
		return logrus.PanicLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func parseCategoryList(spec string) []int {
	var ids []int
	start := 0
	for i := 0; i <= len(spec); i++ {
		if i == len(spec) || spec[i] == ',' {
			tok := spec[start:i]
			start = i + 1
			if tok == "" {
				continue
			}
			n := 0
			ok := true
			for _, c := range tok {
				if c < '0' || c > '9' {
					ok = false
					break
				}
				n = n*10 + int(c-'0')
			}
			if ok {
				ids = append(ids, n)
			}
		}
	}
	return ids
}
