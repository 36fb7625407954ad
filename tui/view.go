package tui

import (
	"fmt"
	"strings"

	"github.com/s0up4200/gitexplore/format"
	"github.com/s0up4200/gitexplore/github"
	"github.com/s0up4200/gitexplore/profile"
	"github.com/s0up4200/gitexplore/search"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loader != nil {
		return m.viewProfile()
	}

	var b strings.Builder

	b.WriteString(m.viewTabs())
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')

	if m.tab == TabUsers {
		line := "Sort: " + m.sort().Label()
		if m.sort() != github.SortBestMatch {
			line += " (" + string(m.order) + ")"
		}
		b.WriteString(styleFooter.Render(line))
	}
	b.WriteByte('\n')

	visible := m.visibleRows()
	end := min(m.offset+visible, m.rowCount())
	for i := m.offset; i < end; i++ {
		row := m.renderRow(i)
		if i == m.cursor && !m.inputFocus {
			row = styleSelected.Render(row)
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}

	if status := m.viewStatus(); status != "" {
		b.WriteString(status)
		b.WriteByte('\n')
	}

	// Inline message (if any)
	if m.message != "" {
		b.WriteString(styleMessage.Render(m.message))
		b.WriteByte('\n')
	}

	b.WriteString(styleFooter.Render(m.footer()))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) viewTabs() string {
	users, repos := styleTab, styleTab
	if m.tab == TabUsers {
		users = styleTabOn
	} else {
		repos = styleTabOn
	}
	return users.Render("Users") + repos.Render("Repositories")
}

func (m Model) renderRow(idx int) string {
	if m.tab == TabRepositories {
		r := m.repoState.Items[idx]
		line := fmt.Sprintf("  %s  ★ %d", r.Name, r.StargazersCount)
		if r.Language != "" {
			line += "  " + r.Language
		}
		return line
	}

	u := m.userState.Items[idx]
	marker := "  "
	if m.favorites[strings.ToLower(u.Login)] {
		marker = styleFavorite.Render("★") + " "
	}
	return marker + u.Login
}

// viewStatus renders the session phase for the current tab
func (m Model) viewStatus() string {
	var (
		phase  search.Phase
		err    *github.Error
		loaded int
		total  int
		atEnd  bool
	)
	if m.tab == TabRepositories {
		s := m.repoState
		phase, err, loaded, total, atEnd = s.Phase(), s.LastError, len(s.Items), s.TotalCount, s.ReachedEnd()
	} else {
		s := m.userState
		phase, err, loaded, total, atEnd = s.Phase(), s.LastError, len(s.Items), s.TotalCount, s.ReachedEnd()
	}

	switch phase {
	case search.PhaseLoadingInitial:
		return m.spinner.View() + " Searching..."
	case search.PhaseLoadingMore:
		return m.spinner.View() + " Loading more..."
	case search.PhaseErrored:
		return styleError.Render(format.ErrorMessage(err)) + styleFooter.Render("  r: retry  x: dismiss")
	case search.PhaseReady:
		if loaded == 0 {
			return "No results."
		}
		if atEnd {
			return styleFooter.Render(fmt.Sprintf("End of results (%d)", total))
		}
		return styleFooter.Render(fmt.Sprintf("%d of %d", loaded, total))
	}
	return ""
}

func (m Model) footer() string {
	if m.inputFocus {
		return "enter: search  tab: switch  esc: results  ctrl+c: quit"
	}
	if m.tab == TabUsers {
		return "j/k: navigate  enter: profile  f: favorite  s: sort  o: order  /: search  tab: switch  q: quit"
	}
	return "j/k: navigate  /: search  tab: switch  q: quit"
}

func (m Model) viewProfile() string {
	var b strings.Builder

	b.WriteString(styleHeader.Render(m.loader.Username()))
	b.WriteByte('\n')

	switch m.profile.Status {
	case profile.StatusLoading, profile.StatusIdle:
		b.WriteString(m.spinner.View() + " Loading profile...")
		b.WriteByte('\n')
	case profile.StatusFailed:
		b.WriteString(styleError.Render(format.ErrorMessage(m.profile.Err)))
		b.WriteByte('\n')
		b.WriteString(styleFooter.Render("r: retry"))
		b.WriteByte('\n')
	case profile.StatusLoaded:
		b.WriteString(format.NewConsoleFormatter().FormatProfile(m.profile.User))
	}

	b.WriteString(styleFooter.Render("esc: back  ctrl+c: quit"))
	b.WriteByte('\n')
	return b.String()
}
