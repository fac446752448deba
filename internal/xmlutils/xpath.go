package xmlutils

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// LoadXML parses an XML document from r and returns the root node
func LoadXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// Nodes returns every node matched by xpath under root.
func Nodes(root *xmlpath.Node, xpath string) ([]*xmlpath.Node, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var nodes []*xmlpath.Node
	iter := path.Iter(root)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes, nil
}

// ExtractFromXML extracts values from an XML node using an XPath expression
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	nodes, err := Nodes(root, xpath)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(nodes))
	for _, node := range nodes {
		values = append(values, node.String())
	}
	return values, nil
}

// FirstValue returns the cleaned text of the first node matched by xpath,
// or an empty string when nothing matches.
func FirstValue(node *xmlpath.Node, xpath string) (string, error) {
	values, err := ExtractFromXML(node, xpath)
	if err != nil {
		return "", err
	}
	return CleanText(GetOrEmpty(values, 0)), nil
}

// GetOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func GetOrEmpty(slice []string, index int) string {
	if index < len(slice) {
		return slice[index]
	}
	return ""
}

// CleanText collapses runs of whitespace and newlines into single spaces
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
