// Package snapshot captures and compares component baselines: DOM structure
// snapshots as JSON and screenshot comparisons against stored images.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/interfaces"
)

// Node is one element in a DOM structure snapshot. Text and attribute noise
// is reduced to what identifies the structure: tag, id, classes and the
// child shape.
type Node struct {
	Tag      string   `json:"tag"`
	ID       string   `json:"id,omitempty"`
	Classes  []string `json:"classes,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

// DOM captures and compares DOM structure snapshots for elements in the
// story iframe.
type DOM struct {
	frame  interfaces.FrameEvaluator
	dir    string
	logger arbor.ILogger
}

// NewDOM creates a DOM snapshotter storing baselines under dir.
func NewDOM(frame interfaces.FrameEvaluator, dir string, logger arbor.ILogger) *DOM {
	return &DOM{
		frame:  frame,
		dir:    dir,
		logger: logger,
	}
}

// Capture extracts the structure snapshot of the first element matching
// selector.
func (d *DOM) Capture(ctx context.Context, selector string) (*Node, error) {
	var html string
	if err := d.frame.EvaluateInFrame(ctx, interfaces.OpGetOuterHTML, selector, nil, &html); err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("no element matches %q", selector)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse element markup: %w", err)
	}

	root := doc.Find("body").Children().First()
	if root.Length() == 0 {
		return nil, fmt.Errorf("no root element in markup for %q", selector)
	}
	node := buildNode(root)
	return &node, nil
}

func buildNode(sel *goquery.Selection) Node {
	node := Node{Tag: goquery.NodeName(sel)}
	if id, ok := sel.Attr("id"); ok {
		node.ID = id
	}
	if class, ok := sel.Attr("class"); ok {
		node.Classes = strings.Fields(class)
		sort.Strings(node.Classes)
	}
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		node.Children = append(node.Children, buildNode(child))
	})
	return node
}

// baselinePath returns the stored baseline path for a snapshot name.
func (d *DOM) baselinePath(name string) string {
	return filepath.Join(d.dir, name+".json")
}

// Verify compares the element's current structure against the stored
// baseline. A missing baseline is written from the current structure and
// reported as created.
func (d *DOM) Verify(ctx context.Context, name, selector string) (created bool, err error) {
	current, err := d.Capture(ctx, selector)
	if err != nil {
		return false, err
	}

	path := d.baselinePath(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := d.write(path, current); err != nil {
			return false, err
		}
		d.logger.Info().Str("name", name).Str("path", path).Msg("DOM baseline created")
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read baseline %s: %w", path, err)
	}

	var baseline Node
	if err := json.Unmarshal(data, &baseline); err != nil {
		return false, fmt.Errorf("failed to parse baseline %s: %w", path, err)
	}

	if diff := diffNodes("", &baseline, current); len(diff) > 0 {
		return false, fmt.Errorf("DOM structure of %q differs from baseline %s:\n  %s",
			selector, name, strings.Join(diff, "\n  "))
	}
	return false, nil
}

func (d *DOM) write(path string, node *Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshots directory: %w", err)
	}
	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// diffNodes collects human-readable structural differences. The walk stops
// descending below a node whose shape already differs.
func diffNodes(path string, want, got *Node) []string {
	label := path + "/" + want.Tag
	var diffs []string
	if want.Tag != got.Tag {
		return []string{fmt.Sprintf("%s: tag %q != %q", path, got.Tag, want.Tag)}
	}
	if want.ID != got.ID {
		diffs = append(diffs, fmt.Sprintf("%s: id %q != %q", label, got.ID, want.ID))
	}
	if strings.Join(want.Classes, " ") != strings.Join(got.Classes, " ") {
		diffs = append(diffs, fmt.Sprintf("%s: classes %v != %v", label, got.Classes, want.Classes))
	}
	if len(want.Children) != len(got.Children) {
		diffs = append(diffs, fmt.Sprintf("%s: %d children != %d", label, len(got.Children), len(want.Children)))
		return diffs
	}
	for i := range want.Children {
		diffs = append(diffs, diffNodes(label, &want.Children[i], &got.Children[i])...)
	}
	return diffs
}
