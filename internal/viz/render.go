package viz

import (
	"errors"
	"fmt"

	"github.com/vk/checkwavego/internal/criteria"
)

// ErrUnsupportedFormat reports a format outside the known variants.
var ErrUnsupportedFormat = errors.New("unsupported visualization format")

// Format selects a diagram renderer.
type Format string

const (
	FormatMermaid  Format = "mermaid"
	FormatGraphviz Format = "graphviz"
	FormatJSON     Format = "json"
	FormatASCII    Format = "ascii"
)

// Diagram is a rendered graph plus usage instructions. Debug is set only
// for the json format.
type Diagram struct {
	Format       Format     `json:"format"`
	Content      string     `json:"content"`
	Instructions string     `json:"instructions"`
	Debug        *DebugInfo `json:"debugInfo,omitempty"`
}

// Render produces the diagram for the requested format. The outputs are
// plain text intended for an external viewer (mermaid.live, dot, a
// terminal); nothing is rendered live here.
func Render(store *criteria.Store, format Format) (Diagram, error) {
	view := Graph(store)
	switch format {
	case FormatMermaid:
		return Diagram{
			Format:       format,
			Content:      renderMermaid(view),
			Instructions: "Paste the content into https://mermaid.live or any Markdown renderer with Mermaid support.",
		}, nil
	case FormatGraphviz:
		return Diagram{
			Format:       format,
			Content:      renderGraphviz(view),
			Instructions: "Save the content as graph.dot and run: dot -Tpng graph.dot -o graph.png",
		}, nil
	case FormatASCII:
		return Diagram{
			Format:       format,
			Content:      renderASCII(view),
			Instructions: "Print the content to any monospace terminal. Arrows list what each criterion waits for.",
		}, nil
	case FormatJSON:
		debug := Analyze(store)
		content, err := renderJSON(view, debug)
		if err != nil {
			return Diagram{}, err
		}
		return Diagram{
			Format:       format,
			Content:      content,
			Instructions: "Feed the content to a graph viewer or jq; debugInfo carries chains, conflicts and critical paths.",
			Debug:        debug,
		}, nil
	default:
		return Diagram{}, fmt.Errorf("%w: %q (want mermaid, graphviz, json or ascii)", ErrUnsupportedFormat, format)
	}
}
