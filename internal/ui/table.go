package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"pahkat/internal/history"
	"pahkat/pkg/database"
	"pahkat/pkg/outline"
	"pahkat/pkg/platform"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer  *tabwriter.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table that writes to w.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		writer:  tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the header and all rows.
func (t *Table) Render() error {
	if len(t.headers) > 0 {
		headerRow := make([]string, len(t.headers))
		for i, h := range t.headers {
			headerRow[i] = Bold(strings.ToUpper(h))
		}
		fmt.Fprintln(t.writer, strings.Join(headerRow, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, strings.Join(row, "\t"))
	}
	return t.writer.Flush()
}

// PrintCatalog prints every repository outline with its groups and the
// selection state of each package.
func PrintCatalog(w io.Writer, c *outline.Catalog, sel selection.Selection, lang string) {
	outlines := c.Outlines()
	if len(outlines) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No repositories loaded"))
		return
	}

	for i, o := range outlines {
		if i > 0 {
			fmt.Fprintln(w)
		}
		PrintOutline(w, o, sel, lang)
	}
}

// PrintOutline prints the groups of one repository.
func PrintOutline(w io.Writer, o *outline.Outline, sel selection.Selection, lang string) {
	r := o.Repository()
	name := ""
	if r.Repo != nil {
		name = r.Repo.NativeName(lang)
	}
	fmt.Fprintf(w, "%s %s\n", RepositoryName.Sprint(name), Muted.Sprint("("+r.Filter.String()+")"))

	if o.Len() == 0 {
		fmt.Fprintln(w, Muted.Sprint("  No packages for this platform"))
		return
	}

	for _, g := range o.Groups() {
		pkgs := o.Packages(g)
		fmt.Fprintf(w, "  %s %s\n", GroupName.Sprint(g.Value), Muted.Sprint("["+strconv.Itoa(len(pkgs))+"]"))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range pkgs {
			fmt.Fprintf(tw, "    %s %s\t%s\t%s\t%s\n",
				SelectionMark(sel.StateOf(p.Key)),
				PackageName.Sprint(p.Descriptor.NativeName(lang)),
				Muted.Sprint(p.Descriptor.ID),
				PackageVersion.Sprint(p.Release.NativeVersion()),
				StatusText(p.Status),
			)
		}
		_ = tw.Flush() //nolint:errcheck
	}
}

// PrintPlan prints the packages of a selection in the order they are committed.
func PrintPlan(w io.Writer, pkgs []selection.SelectedPackage, lang string) {
	if len(pkgs) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No packages selected"))
		return
	}

	t := NewTable(w, "action", "package", "target", "key")
	for _, p := range pkgs {
		t.AddRow(
			ActionText(p.Action),
			PackageName.Sprint(p.Descriptor.NativeName(lang)),
			string(p.Target),
			Muted.Sprint(p.Key.String()),
		)
	}
	_ = t.Render() //nolint:errcheck
}

// PrintSearchResults prints search results grouped by repository.
func PrintSearchResults(w io.Writer, results []database.SearchResult, sel selection.Selection, lang string) {
	if len(results) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No packages found"))
		return
	}

	var order []string
	grouped := make(map[string][]database.SearchResult)
	for _, r := range results {
		url := r.Key.RepositoryURL
		if _, ok := grouped[url]; !ok {
			order = append(order, url)
		}
		grouped[url] = append(grouped[url], r)
	}

	fmt.Fprintln(w, Header.Sprintf("Found %d results across %d repositories", len(results), len(grouped)))

	for _, url := range order {
		fmt.Fprintf(w, "\n%s (%d):\n", RepositoryName.Sprint(url), len(grouped[url]))

		for _, r := range grouped[url] {
			fmt.Fprintf(w, "  %s %s %s %s\n",
				SelectionMark(sel.StateOf(r.Key)),
				PackageName.Sprint(r.Descriptor.NativeName(lang)),
				PackageVersion.Sprint(r.Release.NativeVersion()),
				StatusText(r.Status),
			)

			if desc := r.Descriptor.NativeDescription(lang); desc != "" {
				fmt.Fprintln(w, Muted.Sprint("    "+truncate(desc, 70)))
			}
		}
	}
}

// PrintPackageInfo prints the details of one projected package.
func PrintPackageInfo(w io.Writer, p outline.Package, sel selection.Selection, lang string) {
	fmt.Fprintln(w, Header.Sprint("Package Information"))

	printField(w, "Name", p.Descriptor.NativeName(lang))
	printField(w, "ID", p.Descriptor.ID)
	printField(w, "Key", p.Key.String())
	printField(w, "Version", p.Release.NativeVersion())
	printField(w, "Group", p.Group.Value)
	printField(w, "Status", StatusText(p.Status))
	printField(w, "Selection", sel.StateOf(p.Key).String())

	if desc := p.Descriptor.NativeDescription(lang); desc != "" {
		printField(w, "Description", desc)
	}
	if p.Target != nil && p.Target.Payload != nil {
		printField(w, "Payload", string(p.Target.Payload.Kind))
		if p.Target.Payload.Size > 0 {
			printField(w, "Size", formatSize(p.Target.Payload.Size))
		}
	}
}

// PrintHistory prints transaction entries, newest first.
func PrintHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No transactions recorded"))
		return
	}

	t := NewTable(w, "id", "time", "installs", "uninstalls", "packages", "status")
	for _, e := range entries {
		installs, uninstalls := e.Counts()
		status := Success.Sprint(string(e.Status))
		if e.Status == history.StatusFailed {
			status = Error.Sprint(string(e.Status))
		}
		t.AddRow(
			e.ID,
			e.FormatTime(),
			strconv.Itoa(installs),
			strconv.Itoa(uninstalls),
			truncate(packageIDs(e.Packages), 40),
			status,
		)
	}
	_ = t.Render() //nolint:errcheck
}

// PrintFailures prints repositories that could not be loaded.
func PrintFailures(w io.Writer, failures []repo.Failure) {
	for _, f := range failures {
		fmt.Fprintf(w, "%s %s: %v\n", Warning.Sprint(SymbolWarning), f.URL, f.Err)
	}
}

// PrintSystemInfo prints the detected platform.
func PrintSystemInfo(w io.Writer, info platform.Info, configPath, dataDir string) {
	fmt.Fprintln(w, Header.Sprint("System Information"))

	if info.PrettyName != "" {
		printField(w, "Operating System", strings.TrimSpace(info.PrettyName+" "+info.Version))
	}
	printField(w, "Platform", info.Platform)
	printField(w, "Architecture", info.Arch)
	printField(w, "Config", configPath)
	printField(w, "Data", dataDir)
}

// printField prints a single field with formatting.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", Cyan(label), value)
}

func packageIDs(pkgs []selection.SelectedPackage) string {
	ids := make([]string, len(pkgs))
	for i, p := range pkgs {
		ids[i] = p.Key.ID
	}
	return strings.Join(ids, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
