package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics returns the topics listed in readme.md as "* name: summary".
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	var topics []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	for _, topic := range listed {
		t.Run(topic, func(t *testing.T) {
			if _, err := Topic(topic); err != nil {
				t.Errorf("Topic(%q) failed: %v", topic, err)
			}
		})
	}

	all, err := All()
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
	if len(all) != len(listed) {
		t.Errorf("All() = %q, readme.md lists %q", all, listed)
	}
}

// TestHeadings checks that every topic starts with a single level 1 heading.
func TestHeadings(t *testing.T) {
	all, err := All()
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	for _, topic := range append(all, Readme) {
		t.Run(topic, func(t *testing.T) {
			content, err := Topic(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))
			first, ok := root.FirstChild().(*ast.Heading)
			if !ok || first.Level != 1 {
				t.Fatalf("topic %q does not start with a level 1 heading", topic)
			}
			h1 := 0
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
					h1++
				}
				return ast.WalkContinue, nil
			})
			if h1 != 1 {
				t.Errorf("topic %q has %d level 1 headings, want 1", topic, h1)
			}
		})
	}
}

func TestTopics_Star(t *testing.T) {
	got, err := Topics("*")
	if err != nil {
		t.Fatalf("Topics(*) failed: %v", err)
	}
	for _, heading := range []string{"# Quotes", "# Settlements", "# Inventory"} {
		if !strings.Contains(got, heading) {
			t.Errorf("Topics(*) misses %q", heading)
		}
	}
	if _, err := Topic("unknown"); err == nil {
		t.Errorf("Topic(unknown) succeeded, want an error")
	}
}
