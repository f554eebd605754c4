// Command vibelights-lint compiles a single effect script and reports
// any diagnostics produced by the lexer, parser, type checker, or
// compiler stages: read source, run the pipeline, print either a
// success summary or every diagnostic and exit non-zero.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"

	"vibelights/internal/dsl"
	"vibelights/internal/dslerr"
)

const explainText = `# vibelights-lint

Compiles a ` + "`.vibe`" + ` effect script through the full pipeline:

1. **lex** — tokenize source text
2. **parse** — build a typed statement/expression tree
3. **typecheck** — resolve identifiers, inline calls, desugar switches
4. **compile** — emit stack-machine bytecode
5. **optimize** — fold constants and run a peephole pass

Any diagnostic from stages 1-4 fails the lint with a non-zero exit code.
`

func main() {
	explain := flag.Bool("explain", false, "print a long-form description of what this tool does and exit")
	flag.Parse()

	if *explain {
		printExplain()
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--explain] <script.vibe>\n", os.Args[0])
		os.Exit(1)
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	catalog := dslerr.NewCatalog()
	name := filepath.Base(path)

	compiled, err := dsl.Compile(name, string(source))
	if err != nil {
		var diagErr *dsl.DiagnosticsError
		if errors.As(err, &diagErr) {
			for _, d := range diagErr.Diagnostics {
				fmt.Fprintln(os.Stderr, catalog.Localize(d))
			}
			fmt.Fprintln(os.Stderr, catalog.Summarize(diagErr.Diagnostics))
		} else {
			fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("%s: OK (%d ops, %d constants, %d params)\n",
		name, len(compiled.Ops), len(compiled.Constants), len(compiled.Params))
}

func printExplain() {
	out := &bytesBuffer{}
	if err := goldmark.Convert([]byte(explainText), out); err != nil {
		fmt.Fprintln(os.Stderr, explainText)
		return
	}
	fmt.Println(string(out.Bytes()))
}

// bytesBuffer is a minimal io.Writer so we don't need to import
// bytes.Buffer just for goldmark's render target.
type bytesBuffer struct {
	data []byte
}

func (b *bytesBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *bytesBuffer) Bytes() []byte { return b.data }
