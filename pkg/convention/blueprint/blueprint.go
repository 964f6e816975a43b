package blueprint

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AuditComment is appended to every line the transformer rewrites.
const AuditComment = "    # Value overridden by bpsync"

const (
	nameKey    = "name: "
	versionKey = "version: "
)

// Rewrite replaces the first line containing "version: " and, independently,
// the first line containing "name: ". Every other line is kept as is.
func Rewrite(content, name, version string) string {
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	replaceFirst(lines, versionKey, version)
	replaceFirst(lines, nameKey, name)

	return strings.Join(lines, "\n")
}

func replaceFirst(lines []string, key, value string) {
	for i, line := range lines {
		if strings.Contains(line, key) {
			lines[i] = key + value + AuditComment
			return
		}
	}
}

// Options returns the top-level options mapping of a blueprint in document
// order. A blueprint without options yields an empty mapping.
func Options(content string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse blueprint content: %w", err)
	}

	empty := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return empty, nil
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "options" {
			if root.Content[i+1].Tag == "!!null" {
				return empty, nil
			}
			if root.Content[i+1].Kind != yaml.MappingNode {
				return nil, fmt.Errorf("blueprint options must be a mapping, got %s", root.Content[i+1].Tag)
			}
			return root.Content[i+1], nil
		}
	}

	return empty, nil
}

// Candidate renders options as "{key: value, key: value}" in document order,
// nested mappings included, lower-cased with single quotes dropped. This is
// the form option rules are matched against.
func Candidate(options *yaml.Node) string {
	if options == nil {
		return "{}"
	}

	var b strings.Builder
	render(&b, options)

	return strings.ToLower(strings.ReplaceAll(b.String(), "'", ""))
}

func render(b *strings.Builder, n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) > 0 {
			render(b, n.Content[0])
		}
	case yaml.AliasNode:
		render(b, n.Alias)
	case yaml.MappingNode:
		b.WriteString("{")
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, n.Content[i])
			b.WriteString(": ")
			render(b, n.Content[i+1])
		}
		b.WriteString("}")
	case yaml.SequenceNode:
		b.WriteString("[")
		for i, item := range n.Content {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, item)
		}
		b.WriteString("]")
	default:
		b.WriteString(scalar(n))
	}
}

// scalar prints a value the way the platform's scripting runtime prints it.
func scalar(n *yaml.Node) string {
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return n.Value
	}

	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		f := strconv.FormatFloat(t, 'g', -1, 64)
		if !strings.ContainsAny(f, ".eEn") {
			f += ".0"
		}
		return f
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
