package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	m "describely.dev/pkg/describely/internal/model"
)

// ReportFileName is the snapshot file written inside a reports directory.
const ReportFileName = "report.yaml"

// ReportStore persists finished trees so previous runs can be viewed
// again and sharded runs merged.
type ReportStore interface {
	Save(dir m.Path, tree *m.Tree) error
	Load(dir m.Path) (*m.Tree, error)
}

// NewReportStore creates the YAML-file report store.
func NewReportStore() ReportStore {
	return &yamlReportStore{}
}

type yamlReportStore struct{}

// Serialized snapshot shapes. Durations are stored as float seconds to
// keep reports readable and runner-agnostic.
type reportDoc struct {
	SlowThreshold float64   `yaml:"slow_threshold"`
	Files         []nodeDoc `yaml:"files"`
}

type nodeDoc struct {
	Name        string     `yaml:"name"`
	DisplayName string     `yaml:"display_name"`
	Kind        m.NodeKind `yaml:"kind"`
	Docstring   string     `yaml:"docstring,omitempty"`
	Children    []nodeDoc  `yaml:"children,omitempty"`
	Result      *resultDoc `yaml:"result,omitempty"`
}

type resultDoc struct {
	Outcome  m.Outcome `yaml:"outcome"`
	Duration float64   `yaml:"duration"`
	LongRepr string    `yaml:"longrepr,omitempty"`
	Fixtures []string  `yaml:"fixtures,omitempty"`
}

func (s *yamlReportStore) Save(dir m.Path, tree *m.Tree) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	doc := reportDoc{SlowThreshold: tree.SlowThreshold.Seconds()}
	for _, root := range tree.Roots {
		doc.Files = append(doc.Files, encodeNode(root))
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	target := filepath.Join(string(dir), ReportFileName)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	slog.Debug("saved report", "path", target, "tests", tree.TotalTests())

	return nil
}

func (s *yamlReportStore) Load(dir m.Path) (*m.Tree, error) {
	target := filepath.Join(string(dir), ReportFileName)

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var doc reportDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", target, err)
	}

	tree := m.NewTree(time.Duration(doc.SlowThreshold * float64(time.Second)))
	for _, file := range doc.Files {
		tree.Roots = append(tree.Roots, decodeNode(file, ""))
	}

	slog.Debug("loaded report", "path", target, "tests", tree.TotalTests())

	return tree, nil
}

func encodeNode(node *m.Node) nodeDoc {
	doc := nodeDoc{
		Name:        node.Name,
		DisplayName: node.DisplayName,
		Kind:        node.Kind,
		Docstring:   node.Docstring,
	}

	if node.Result != nil {
		doc.Result = &resultDoc{
			Outcome:  node.Result.Outcome,
			Duration: node.Result.Duration.Seconds(),
			LongRepr: node.Result.LongRepr,
			Fixtures: node.Result.FixtureNames,
		}
	}

	for _, child := range node.Children {
		doc.Children = append(doc.Children, encodeNode(child))
	}

	return doc
}

func decodeNode(doc nodeDoc, parentID string) *m.Node {
	id := doc.Name
	if parentID != "" {
		id = parentID + "::" + doc.Name
	}

	node := &m.Node{
		Name:        doc.Name,
		DisplayName: doc.DisplayName,
		Kind:        doc.Kind,
		ID:          id,
		Docstring:   doc.Docstring,
	}

	if doc.Result != nil {
		node.Result = &m.Result{
			Outcome:      doc.Result.Outcome,
			Duration:     time.Duration(doc.Result.Duration * float64(time.Second)),
			LongRepr:     doc.Result.LongRepr,
			FixtureNames: doc.Result.Fixtures,
		}
	}

	for _, child := range doc.Children {
		node.Children = append(node.Children, decodeNode(child, id))
	}

	return node
}
