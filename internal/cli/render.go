package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/konkursant/portal/internal/review/aggregate"
	"github.com/konkursant/portal/internal/review/model"
)

var (
	titleColor = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	green      = color.New(color.FgHiGreen).SprintFunc()
	yellow     = color.New(color.FgHiYellow).SprintFunc()
	red        = color.New(color.FgHiRed).SprintFunc()
	warnPrefix = color.New(color.FgHiYellow).Sprint("!")
)

// Renderer writes summaries as terminal tables or JSON.
type Renderer struct {
	Out    io.Writer
	ErrOut io.Writer
}

// averageColor colours an average by how strong the score is on the 1..10 scale.
func averageColor(avg float64) string {
	s := strconv.FormatFloat(avg, 'f', 2, 64)
	switch {
	case avg >= 7:
		return green(s)
	case avg >= 5:
		return yellow(s)
	default:
		return red(s)
	}
}

func formatScore(s model.Score) string {
	if !s.Valid {
		return "-"
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

func (r *Renderer) table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(r.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// JSON writes v indented.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Summaries renders each summary in turn, separated by a blank line.
func (r *Renderer) Summaries(summaries []aggregate.ProjectSummary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(r.Out, "Нет оценённых проектов")
		return nil
	}
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(r.Out)
		}
		if err := r.Summary(s); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders one project: a row per reviewer, a row of criterion averages and the totals.
func (r *Renderer) Summary(s aggregate.ProjectSummary) error {
	title := s.ProjectTitle
	if title == "" {
		title = "Проект"
	}
	fmt.Fprintf(r.Out, "%s #%d", titleColor(title), s.ProjectID)
	if s.AuthorName != "" {
		fmt.Fprintf(r.Out, " (%s)", s.AuthorName)
	}
	fmt.Fprintln(r.Out)

	if !s.HasData() {
		fmt.Fprintln(r.Out, "Нет оценок")
		r.warnings(s.Warnings)
		return nil
	}

	headers := make([]string, 0, len(s.Criteria)+3)
	headers = append(headers, "")
	for _, c := range s.Criteria {
		headers = append(headers, c.Key)
	}
	headers = append(headers, "Сумма", "Среднее")
	table := r.table(headers)

	for _, row := range s.Reviewers {
		cells := make([]string, 0, len(headers))
		cells = append(cells, row.Label)
		for _, score := range row.Scores {
			cells = append(cells, formatScore(score))
		}
		cells = append(cells,
			strconv.FormatFloat(row.Sum, 'f', 2, 64),
			strconv.FormatFloat(row.Average, 'f', 2, 64),
		)
		if err := table.Append(cells); err != nil {
			return err
		}
	}

	averages := make([]string, 0, len(headers))
	averages = append(averages, "Среднее по критерию")
	for _, a := range s.CriterionAverages {
		averages = append(averages, strconv.FormatFloat(a.Average, 'f', 2, 64))
	}
	averages = append(averages, "", "")
	if err := table.Append(averages); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(r.Out, "Экспертов: %d\n", s.ReviewerCount)
	fmt.Fprintf(r.Out, "Средняя оценка: %s\n", averageColor(s.AverageOfAverages))
	fmt.Fprintf(r.Out, "Сумма средних: %.2f\n", s.SumOfAverages)
	if s.ReviewerCount > 1 {
		fmt.Fprintf(r.Out, "Разброс: %.2f..%.2f, медиана %.2f, σ %.2f\n",
			s.Spread.Min, s.Spread.Max, s.Spread.Median, s.Spread.StdDev)
	}
	r.warnings(s.Warnings)
	return nil
}

func (r *Renderer) warnings(warnings []aggregate.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(r.ErrOut, "%s %s\n", warnPrefix, w)
	}
}

// Schemas lists every known criterion set.
func (r *Renderer) Schemas(registry *model.Registry, active model.SchemaVersion) error {
	for i, version := range registry.Versions() {
		schema, err := registry.Schema(version)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(r.Out)
		}
		name := string(version)
		if version == active {
			name += " (active)"
		}
		fmt.Fprintln(r.Out, titleColor(name))

		table := r.table([]string{"#", "Key", "Label"})
		for n, c := range schema.Criteria {
			if err := table.Append([]string{strconv.Itoa(n + 1), c.Key, c.Label}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}
