package main

import (
	"bufio"
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Category   string  `json:"category"`
	Scenario   string  `json:"scenario"`
	Iterations int64   `json:"iterations"`
	NsPerOp    float64 `json:"ns_per_op"`
	BytesPerOp int64   `json:"bytes_per_op"`
	AllocsOp   int64   `json:"allocs_per_op"`
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Colors{
	"Cubby": {text.FgGreen},
	"Do":    {text.FgYellow},
	"Dig":   {text.FgMagenta},
	"Fx":    {text.FgBlue},
}

var categoryOrder = []string{
	"Bind_Simple", "Bind_Chain",
	"Lookup_Singleton", "Lookup_Nested", "Lookup_Miss",
	"Teardown_Scope", "Teardown_Shared",
}

var categoryTitles = map[string]string{
	"Bind_Simple":      "Registration (one value)",
	"Bind_Chain":       "Registration (six values)",
	"Lookup_Singleton": "Lookup (root binding)",
	"Lookup_Nested":    "Lookup (three scopes deep)",
	"Lookup_Miss":      "Lookup (absent binding)",
	"Teardown_Scope":   "Scope open, install, close",
	"Teardown_Shared":  "Shared value across two containers",
}

func main() {
	benchDir := ".."
	exportJSONFlag := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" {
			exportJSONFlag = true
			continue
		}
		benchDir = arg
	}

	fmt.Println(text.Colors{text.Bold, text.FgCyan}.Sprint("cubby benchmark suite"))
	fmt.Println(text.Faint.Sprint("Running benchmarks..."))
	fmt.Println()

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Benchmark failed: %s\n", string(exitErr.Stderr))
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}
	printSummary(grouped)

	if exportJSONFlag {
		exportJSON(results)
	}
}

func parseResults(output []byte) []BenchmarkResult {
	benchPattern := regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)
	namePattern := regexp.MustCompile(`^([^_]+)_([^_]+)_(\w+)$`)

	seen := make(map[string][]BenchmarkResult)
	var order []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		matches := benchPattern.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.ParseInt(matches[2], 10, 64)
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)
		bytesPerOp, _ := strconv.ParseInt(matches[4], 10, 64)
		allocsOp, _ := strconv.ParseInt(matches[5], 10, 64)

		r := BenchmarkResult{
			Name:       name,
			Iterations: iterations,
			NsPerOp:    nsPerOp,
			BytesPerOp: bytesPerOp,
			AllocsOp:   allocsOp,
		}
		if parts := namePattern.FindStringSubmatch(name); parts != nil {
			r.Category, r.Scenario, r.Framework = parts[1], parts[2], parts[3]
		} else if parts := strings.Split(name, "_"); len(parts) >= 2 {
			r.Category = parts[0]
			r.Framework = parts[len(parts)-1]
			r.Scenario = strings.Join(parts[1:len(parts)-1], "_")
		}

		if _, ok := seen[name]; !ok {
			order = append(order, name)
		}
		seen[name] = append(seen[name], r)
	}

	results := make([]BenchmarkResult, 0, len(order))
	for _, name := range order {
		results = append(results, average(seen[name]))
	}
	return results
}

func average(runs []BenchmarkResult) BenchmarkResult {
	var totalNs float64
	var totalBytes, totalAllocs int64
	for _, r := range runs {
		totalNs += r.NsPerOp
		totalBytes += r.BytesPerOp
		totalAllocs += r.AllocsOp
	}
	count := float64(len(runs))

	avg := runs[0]
	avg.NsPerOp = totalNs / count
	avg.BytesPerOp = int64(float64(totalBytes) / count)
	avg.AllocsOp = int64(float64(totalAllocs) / count)
	return avg
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	for _, r := range results {
		key := r.Category + "_" + r.Scenario
		groups[key] = append(groups[key], r)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ia, ib := rank(a), rank(b)
		if ia != ib {
			return cmp.Compare(ia, ib)
		}
		return strings.Compare(a, b)
	})

	ordered := make([]CategoryResults, 0, len(keys))
	for _, key := range keys {
		results := groups[key]
		slices.SortFunc(results, func(a, b BenchmarkResult) int {
			return cmp.Compare(a.NsPerOp, b.NsPerOp)
		})
		ordered = append(ordered, CategoryResults{Category: key, Results: results})
	}
	return ordered
}

func rank(category string) int {
	if i := slices.Index(categoryOrder, category); i >= 0 {
		return i
	}
	return len(categoryOrder)
}

func printCategory(cat CategoryResults) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(formatCategoryTitle(cat.Category))
	t.AppendHeader(table.Row{"Framework", "Time/op", "Bytes/op", "Allocs/op", "Relative"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	if len(cat.Results) == 0 {
		t.AppendRow(table.Row{"no results"})
		t.Render()
		fmt.Println()
		return
	}

	fastest := cat.Results[0].NsPerOp
	for i, r := range cat.Results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}
		t.AppendRow(table.Row{
			colorize(r.Framework),
			formatNs(r.NsPerOp),
			fmt.Sprintf("%d B", r.BytesPerOp),
			r.AllocsOp,
			relative,
		})
	}

	t.Render()
	fmt.Println()
}

func colorize(framework string) string {
	if colors, ok := frameworkColors[framework]; ok {
		return colors.Sprint(framework)
	}
	return framework
}

func formatCategoryTitle(cat string) string {
	if title, ok := categoryTitles[cat]; ok {
		return title
	}
	return strings.ReplaceAll(cat, "_", " ")
}

func formatNs(ns float64) string {
	if ns >= 1_000_000 {
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	}
	if ns >= 1_000 {
		return fmt.Sprintf("%.2f µs", ns/1_000)
	}
	return fmt.Sprintf("%.0f ns", ns)
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	for _, cat := range groups {
		if len(cat.Results) > 0 {
			wins[cat.Results[0].Framework]++
		}
	}

	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(wins[b], wins[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"Framework", "Wins"})
	for _, name := range names {
		t.AppendRow(table.Row{colorize(name), fmt.Sprintf("%d/%d", wins[name], len(groups))})
	}
	t.AppendFooter(table.Row{"Compared", "cubby, samber/do, uber/dig, uber/fx"})
	t.Render()
}

func exportJSON(results []BenchmarkResult) {
	output := struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{
		Benchmarks: results,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	_ = os.WriteFile("benchmark_results.json", data, 0644)
	fmt.Println(text.Faint.Sprint("Results exported to benchmark_results.json"))
}
