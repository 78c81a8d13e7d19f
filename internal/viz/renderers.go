package viz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vk/checkwavego/internal/criteria"
)

// nodeID sanitizes a criterion name into an identifier both mermaid and
// dot accept without quoting surprises.
func nodeID(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func renderMermaid(view View) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for _, n := range view.Nodes {
		label := n.Name
		if n.EstimatedMs > 0 {
			label = fmt.Sprintf("%s<br/>%dms", n.Name, n.EstimatedMs)
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", nodeID(n.Name), label)
	}
	for _, e := range view.Edges {
		// Dependencies point at their targets; mermaid arrows read
		// target-first so the diagram flows in execution order.
		switch e.Type {
		case criteria.DepWeak:
			fmt.Fprintf(&sb, "    %s -.-> %s\n", nodeID(e.To), nodeID(e.From))
		case criteria.DepOptional:
			fmt.Fprintf(&sb, "    %s -. optional .-> %s\n", nodeID(e.To), nodeID(e.From))
		default:
			fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(e.To), nodeID(e.From))
		}
	}
	return sb.String()
}

func renderGraphviz(view View) string {
	var sb strings.Builder
	sb.WriteString("digraph criteria {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, fontname=\"monospace\"];\n")
	for _, n := range view.Nodes {
		label := n.Name
		if n.EstimatedMs > 0 {
			label = fmt.Sprintf("%s\\n%dms", n.Name, n.EstimatedMs)
		}
		fmt.Fprintf(&sb, "    %s [label=\"%s\"];\n", nodeID(n.Name), label)
	}
	for _, e := range view.Edges {
		style := "solid"
		switch e.Type {
		case criteria.DepWeak:
			style = "dashed"
		case criteria.DepOptional:
			style = "dotted"
		}
		fmt.Fprintf(&sb, "    %s -> %s [style=%s];\n", nodeID(e.To), nodeID(e.From), style)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func renderASCII(view View) string {
	deps := make(map[string][]Edge)
	for _, e := range view.Edges {
		deps[e.From] = append(deps[e.From], e)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "criteria dependency graph (%d nodes, %d levels)\n\n", len(view.Nodes), view.Levels)
	for _, n := range view.Nodes {
		fmt.Fprintf(&sb, "%s", n.Name)
		if n.EstimatedMs > 0 {
			fmt.Fprintf(&sb, "  (%dms)", n.EstimatedMs)
		}
		if !n.Parallelizable {
			sb.WriteString("  [solo]")
		}
		sb.WriteString("\n")
		edges := deps[n.Name]
		for i, e := range edges {
			connector := "├──"
			if i == len(edges)-1 {
				connector = "└──"
			}
			marker := "requires"
			switch e.Type {
			case criteria.DepWeak:
				marker = "prefers after"
			case criteria.DepOptional:
				marker = "relates to"
			}
			fmt.Fprintf(&sb, "  %s %s %s\n", connector, marker, e.To)
		}
	}
	return sb.String()
}

// jsonDocument is the shape of the json format: the graph view plus the
// debug analysis in one document.
type jsonDocument struct {
	View
	Debug *DebugInfo `json:"debugInfo"`
}

func renderJSON(view View, debug *DebugInfo) (string, error) {
	raw, err := json.MarshalIndent(jsonDocument{View: view, Debug: debug}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode graph json: %w", err)
	}
	return string(raw), nil
}
