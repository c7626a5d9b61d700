package docs

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

func TestGetAllTopics(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"history", "overrides", "portfolio"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i], want[i])
		}
	}
}

func TestGetTopicUnknown(t *testing.T) {
	if _, err := GetTopic("no-such-topic"); err == nil {
		t.Error("unknown topic resolved")
	}
}

func TestGetTopicsStar(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range []string{"portfolio", "overrides", "history"} {
		single, err := GetTopic(topic)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(all, single) {
			t.Errorf("star expansion misses topic %q", topic)
		}
	}
}

// Every topic must at least parse as markdown with a top-level heading.
func TestTopicsAreValidMarkdown(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	topics = append(topics, "readme")
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			t.Fatal(err)
		}
		source := []byte(content)
		doc := goldmark.DefaultParser().Parse(text.NewReader(source))
		heading := doc.FirstChild()
		if heading == nil || heading.Kind().String() != "Heading" {
			t.Errorf("topic %q does not start with a heading", topic)
		}
	}
}
