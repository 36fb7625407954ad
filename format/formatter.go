// Package format renders search results, profiles and errors for the console.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/gitexplore/favorites"
	"github.com/s0up4200/gitexplore/github"
)

// JoinedDateLayout renders account creation dates, e.g. "03 Sep 2011"
const JoinedDateLayout = "02 Jan 2006"

// ProfileURL returns the public web page of a user
func ProfileURL(username string) string {
	return "https://github.com/" + username
}

// JoinedDate renders t with JoinedDateLayout
func JoinedDate(t time.Time) string {
	return t.Format(JoinedDateLayout)
}

// ConsoleFormatter provides console output formatting for search results
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatUsers formats a list of users. total is the provider's result count
// and is shown when it differs from the number of users listed.
func (f *ConsoleFormatter) FormatUsers(users []github.UserSummary, total int) string {
	if len(users) == 0 {
		return "No users found"
	}

	var sb strings.Builder
	writeHeader(&sb, "User", "Users", len(users), total)

	for i, u := range users {
		isLast := i == len(users)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s (#%d)\n", prefix, u.Login, u.ID)
		fmt.Fprintf(&sb, "%s%s\n", indent, ProfileURL(u.Login))

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatRepositories formats a list of repositories
func (f *ConsoleFormatter) FormatRepositories(repos []github.RepositorySummary, total int) string {
	if len(repos) == 0 {
		return "No repositories found"
	}

	var sb strings.Builder
	writeHeader(&sb, "Repository", "Repositories", len(repos), total)

	for i, r := range repos {
		isLast := i == len(repos)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s\n", prefix, r.Name)
		if r.Description != "" {
			fmt.Fprintf(&sb, "%s%s\n", indent, r.Description)
		}

		parts := []string{
			fmt.Sprintf("★ %d", r.StargazersCount),
			fmt.Sprintf("Forks: %d", r.ForksCount),
		}
		if r.Language != "" {
			parts = append(parts, r.Language)
		}
		fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(parts, " | "))
		if r.HTMLURL != "" {
			fmt.Fprintf(&sb, "%s%s\n", indent, r.HTMLURL)
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatProfile formats a full user profile
func (f *ConsoleFormatter) FormatProfile(u *github.UserDetails) string {
	if u == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s", u.DisplayName())
	if u.Name != "" {
		fmt.Fprintf(&sb, " (@%s)", u.Login)
	}
	sb.WriteString("\n")

	if u.Bio != "" {
		fmt.Fprintf(&sb, "├── %s\n", strings.TrimSpace(u.Bio))
	}
	fmt.Fprintf(&sb, "├── Followers: %d | Following: %d | Repos: %d\n", u.Followers, u.Following, u.PublicRepos)

	var details []string
	if u.Company != "" {
		details = append(details, u.Company)
	}
	if u.Location != "" {
		details = append(details, u.Location)
	}
	if len(details) > 0 {
		fmt.Fprintf(&sb, "├── %s\n", strings.Join(details, " | "))
	}
	fmt.Fprintf(&sb, "├── Joined: %s\n", JoinedDate(u.CreatedAt))
	fmt.Fprintf(&sb, "╰── %s\n", ProfileURL(u.Login))

	return sb.String()
}

// FormatFavorites formats the favorites list
func (f *ConsoleFormatter) FormatFavorites(favs []favorites.Favorite) string {
	if len(favs) == 0 {
		return "No favorites yet"
	}

	var sb strings.Builder
	sb.WriteString("\nFavorite")
	if len(favs) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(favs))

	for i, fav := range favs {
		isLast := i == len(favs)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s\n", prefix, fav.Username)
		fmt.Fprintf(&sb, "%sAdded: %s\n", indent, fav.AddedAt.Local().Format("2006-01-02 15:04"))
	}

	sb.WriteString("\n")
	return sb.String()
}

func writeHeader(sb *strings.Builder, singular, plural string, shown, total int) {
	noun := plural
	if shown == 1 {
		noun = singular
	}
	if total > shown {
		fmt.Fprintf(sb, "\n%s (%d of %d):\n\n", noun, shown, total)
		return
	}
	fmt.Fprintf(sb, "\n%s (%d):\n\n", noun, shown)
}

func branch(isLast bool) (prefix, indent string) {
	if isLast {
		return "╰", "    "
	}
	return "├", "│   "
}
