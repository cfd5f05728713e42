// Package report renders calculation results and sweeps as Markdown and HTML.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"aryastastic/domain/study"
)

// Document is the renderable view of one calculation
type Document struct {
	ID     string
	Design study.Design
	Result *study.ExtendedCalculatorResult
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"|", `\|`,
	"#", `\#`,
	"`", "\\`",
)

func escape(s string) string { return mdEscaper.Replace(s) }

// Markdown renders the interpretation, the result quantities and the
// numbered calculation trace.
func Markdown(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(title(doc.Design)))
	if doc.ID != "" {
		fmt.Fprintf(&b, "Calculation `%s`\n\n", doc.ID)
	}
	if doc.Result == nil {
		b.WriteString("No result.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s\n\n", escape(doc.Result.Interpretation))

	rows := quantities(doc.Result)
	if len(rows) > 0 {
		b.WriteString("| Quantity | Value |\n")
		b.WriteString("|---|---|\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", r[0], r[1])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Calculation\n\n")
	for i, line := range doc.Result.Calculations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escape(line))
	}
	return b.String()
}

// SweepMarkdown renders one table row per sweep point followed by the summary.
func SweepMarkdown(s *study.Sweep) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s sweep over %s\n\n", escape(title(s.Design)), escape(s.Parameter))
	b.WriteString("| Value | Sample size | Total N | Power | Effect size | Error |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, p := range s.Points {
		row := []string{formatFloat(p.Value), "", "", "", "", ""}
		if p.OK() {
			row[1] = formatInt(p.Result.SampleSize)
			row[2] = formatInt(p.Result.TotalN)
			row[3] = formatPower(p.Result.Power)
			row[4] = formatFloatPtr(p.Result.EffectSize)
		} else {
			row[5] = escape(p.Error)
		}
		fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
	}
	if sum := s.Summary; sum != nil {
		fmt.Fprintf(&b, "\n%s over %d points: min %s, median %s, max %s\n",
			escape(string(sum.Metric)), sum.Count, formatFloat(sum.Min), formatFloat(sum.Median), formatFloat(sum.Max))
	}
	return b.String()
}

// HTML converts Markdown output to an HTML fragment.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.SkipHTML | html.HrefTargetBlank})
	return markdown.ToHTML([]byte(md), p, r)
}

func quantities(r *study.ExtendedCalculatorResult) [][2]string {
	var rows [][2]string
	if r.N1 != nil {
		rows = append(rows,
			[2]string{"n1", formatInt(r.N1)},
			[2]string{"n2", formatInt(r.N2)},
			[2]string{"Total N", formatInt(r.TotalN)})
	} else if r.SampleSize != nil {
		rows = append(rows, [2]string{"Sample size", formatInt(r.SampleSize)})
	}
	if r.Power != nil {
		rows = append(rows, [2]string{"Power", formatPower(r.Power)})
	}
	if r.EffectSize != nil {
		rows = append(rows, [2]string{"Effect size", formatFloatPtr(r.EffectSize)})
	}
	return rows
}

func title(d study.Design) string {
	words := strings.Split(string(d), "-")
	for i, w := range words {
		switch w {
		case "mde":
			words[i] = "MDE"
		case "noninferiority":
			words[i] = "Non-inferiority"
		default:
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
	}
	return strings.Join(words, " ")
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

func formatPower(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}
