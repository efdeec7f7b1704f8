package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/mdsplit"
	"github.com/dgallion1/mdsplit/mdtree"
	"github.com/dgallion1/mdsplit/preprocess"
	"github.com/dgallion1/mdsplit/sizer"
)

func main() {
	var (
		chunkSize = flag.Int("size", 1500, "target chunk content size")
		ratio     = flag.Float64("ratio", 1.5, "overflow ratio over the target size")
		maxRaw    = flag.Int("max-raw", 0, "hard ceiling on serialized chunk bytes (0 disables)")
		encoding  = flag.String("tokens", "", "measure size in tokens of this tiktoken encoding instead of runes")
		baseURL   = flag.String("base", "", "resolve relative link destinations against this URL")
		dropHTML  = flag.Bool("drop-html", false, "strip raw HTML before chunking")
		jsonOut   = flag.Bool("json", false, "emit chunks as a JSON array instead of delimited text")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	src, err := readInput(flag.Arg(0))
	if err != nil {
		log.Error("read input", "error", err)
		os.Exit(1)
	}

	doc, err := mdtree.Parse(src)
	if err != nil {
		log.Error("parse markdown", "error", err)
		os.Exit(1)
	}

	var transforms []preprocess.Transform
	if *dropHTML {
		transforms = append(transforms, preprocess.DropHTML())
	}
	if *baseURL != "" {
		transforms = append(transforms, preprocess.ResolveLinks(*baseURL))
	}
	if len(transforms) > 0 {
		doc = preprocess.Apply(doc, transforms...)
	}

	opts := mdsplit.Options{
		ChunkSize:        *chunkSize,
		MaxOverflowRatio: *ratio,
		MaxRawSize:       *maxRaw,
	}
	if *encoding != "" {
		opts.Size, err = sizer.Tokens(*encoding)
		if err != nil {
			log.Error("load tokenizer", "encoding", *encoding, "error", err)
			os.Exit(1)
		}
	}

	chunks, err := mdsplit.Split(doc, opts)
	if err != nil {
		log.Error("split document", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(chunks); err != nil {
			log.Error("encode output", "error", err)
			os.Exit(1)
		}
		return
	}

	for i, c := range chunks {
		if i > 0 {
			fmt.Print("\n---8<---\n\n")
		}
		for _, bc := range c.Breadcrumbs {
			fmt.Printf("%s> %s\n", pad(bc.Depth), bc.Text)
		}
		fmt.Println(c.Text)
	}
}

// readInput reads the named file, or stdin when no argument is given.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func pad(depth int) string {
	s := ""
	for i := 1; i < depth; i++ {
		s += "  "
	}
	return s
}
