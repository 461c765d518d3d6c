package tui

import (
	"fmt"
	"strings"

	"filechooser/internal/chooser"
	"filechooser/internal/icons"
	"filechooser/internal/pathutil"
	"filechooser/internal/portal"
	"filechooser/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderTitle())
	sb.WriteString("\n")

	list := m.renderList()
	if d, ok := m.chooser.Detail(); ok {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.renderDetail(d))
	}
	sb.WriteString(list)
	sb.WriteString("\n")

	if m.mode == types.Search {
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	}
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.App.Render(sb.String())
}

func (m *Model) renderTitle() string {
	req := m.chooser.Request()
	title := "Open"
	if req.AcceptLabel != "" {
		title = req.AcceptLabel
	} else if req.Kind == portal.SaveFile {
		title = "Save"
	}

	crumbs := make([]string, len(m.view.Breadcrumbs))
	for i, c := range m.view.Breadcrumbs {
		crumbs[i] = pathutil.DisplayName(c)
	}
	return m.styles.Title.Render(title) + "  " + m.styles.Crumb.Render(strings.Join(crumbs, " › "))
}

func (m *Model) renderList() string {
	if len(m.view.Entries) == 0 {
		if !m.view.Complete {
			return m.styles.Partial.Render("Loading…")
		}
		return m.styles.Help.Render("No files found")
	}

	var sb strings.Builder
	end := m.offset + m.rows()
	if end > len(m.view.Entries) {
		end = len(m.view.Entries)
	}
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.renderRow(i, m.view.Entries[i]))
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *Model) renderRow(i int, e types.Entry) string {
	cursor := "  "
	if i == m.cursor {
		cursor = m.styles.Cursor.Render("> ")
	}

	mark := "[ ]"
	if m.chooser.IsSelected(e.Path()) {
		mark = m.styles.Selected.Render("[x]")
	}

	name := e.Name()
	style := m.styles.File
	switch {
	case e.IsSymlink():
		style = m.styles.Symlink
	case e.IsDir():
		style = m.styles.Directory
	}
	if e.IsDir() {
		name += "/"
	}
	if !e.Permissions().Read {
		style = m.styles.Disabled
	}

	size := ""
	if !e.IsDir() {
		size = humanize.Bytes(uint64(e.Size()))
	}
	return fmt.Sprintf("%s%s %s %s", cursor, mark, style.Render(name), m.styles.Help.Render(size))
}

func (m *Model) renderDetail(d chooser.Detail) string {
	e := d.Entry
	var lines []string
	lines = append(lines, m.styles.Title.Render(e.Name()))
	lines = append(lines, "Kind:        "+e.Kind().String())
	if !e.IsDir() {
		lines = append(lines, fmt.Sprintf("Size:        %s (%s bytes)", humanize.Bytes(uint64(e.Size())), humanize.Comma(e.Size())))
	}
	lines = append(lines, "Permissions: "+e.Permissions().String())
	if target, ok := e.SymlinkTarget(); ok {
		lines = append(lines, "Target:      "+target)
	}
	if mimes := types.MimeTypesOf(e); len(mimes) > 0 {
		lines = append(lines, "Type:        "+strings.Join(mimes, ", "))
	}
	lines = append(lines, "Icon:        "+e.Icon())
	switch d.Preview {
	case icons.PreviewVector, icons.PreviewRaster:
		lines = append(lines, "Preview:     "+d.Preview.String())
	}
	return m.styles.Detail.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		return m.styles.Error.Render("Error: " + m.err.Error())
	}

	var parts []string
	v := m.view
	if !v.Complete {
		parts = append(parts, m.styles.Partial.Render(fmt.Sprintf("%s scanning %d/%d", m.spinner.View(), v.Scanned, v.Total)))
	}
	count := fmt.Sprintf("%d entries", v.Matched)
	if v.Truncated {
		count = fmt.Sprintf("showing %d of %d entries", len(v.Entries), v.Matched)
	}
	parts = append(parts, count)

	f, _ := m.chooser.CurrentFilter()
	parts = append(parts, "filter: "+f.Label)
	if q := m.chooser.Filter().Search; q != "" {
		parts = append(parts, "search: "+q)
	}
	if m.chooser.Filter().ShowHidden {
		parts = append(parts, "hidden shown")
	}
	if m.chooser.Request().Kind == portal.SaveFile {
		parts = append(parts, "name: "+m.chooser.SaveName())
	}
	if n := len(m.chooser.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	return m.styles.Status.Render(strings.Join(parts, " · "))
}
