package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// sectionOrder fixes the rendering order of the well-known report
// sections; anything else follows alphabetically.
var sectionOrder = []string{
	"executive_summary",
	"what_happened",
	"what_went_well",
	"what_could_be_improved",
	"geometry_analysis",
	"lessons_learned",
	"action_items",
	"metrics",
	"structure_enhancements",
}

// RenderMarkdown renders an AAR result as a markdown document.
func RenderMarkdown(result *AARResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# After Action Review %s\n\n", result.AARID)
	fmt.Fprintf(&sb, "- **Mission**: %s\n", result.MissionID)
	fmt.Fprintf(&sb, "- **Compliance**: %.1f%%\n", result.ComplianceScore)
	fmt.Fprintf(&sb, "- **Generated**: %s\n\n", result.GeneratedAt.ISO8601())

	for _, section := range orderedSections(result.ReportContent) {
		value, ok := result.ReportContent[section]
		if !ok {
			continue
		}
		if section == "aar_id" || section == "mission_id" || section == "report_type" {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", headingFor(section))
		writeValue(&sb, value, 0)
		sb.WriteByte('\n')
	}

	return sb.String()
}

// RenderHTML renders an AAR result as an HTML document.
func RenderHTML(result *AARResult) []byte {
	md := []byte(RenderMarkdown(result))
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

func orderedSections(content map[string]interface{}) []string {
	seen := make(map[string]bool, len(sectionOrder))
	ordered := make([]string, 0, len(content))
	for _, s := range sectionOrder {
		if _, ok := content[s]; ok {
			ordered = append(ordered, s)
			seen[s] = true
		}
	}
	rest := make([]string, 0, len(content))
	for k := range content {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func headingFor(section string) string {
	words := strings.Split(section, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func writeValue(sb *strings.Builder, value interface{}, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch child := v[k].(type) {
			case map[string]interface{}, []interface{}:
				fmt.Fprintf(sb, "%s- **%s**:\n", indent, headingFor(k))
				writeValue(sb, child, depth+1)
			default:
				fmt.Fprintf(sb, "%s- **%s**: %s\n", indent, headingFor(k), formatScalar(child))
			}
		}
	case []interface{}:
		if len(v) == 0 {
			fmt.Fprintf(sb, "%s- (none)\n", indent)
			return
		}
		for _, item := range v {
			switch child := item.(type) {
			case map[string]interface{}, []interface{}:
				writeValue(sb, child, depth+1)
			default:
				fmt.Fprintf(sb, "%s- %s\n", indent, formatScalar(child))
			}
		}
	default:
		fmt.Fprintf(sb, "%s%s\n", indent, formatScalar(v))
	}
}

func formatScalar(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%.4g", t)
	case nil:
		return "n/a"
	default:
		return fmt.Sprintf("%v", t)
	}
}
