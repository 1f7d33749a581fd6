package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/justinpbarnett/guildview/internal/format"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
)

const flashDurationVal = 5 * time.Second

// Version is set via -ldflags at build time. Falls back to "dev".
var Version = "dev"

// FlashDuration returns how long the status bar flash is shown.
func FlashDuration() time.Duration { return flashDurationVal }

// FlashLevel controls the icon and color of a status bar flash message.
type FlashLevel int

const (
	FlashInfo    FlashLevel = iota // blue ●
	FlashSuccess                   // green ✓
	FlashWarning                   // yellow ⚠
	FlashError                     // red ✗
)

type StatusBar struct {
	width          int
	store          *run.Store
	flash          string
	flashLevel     FlashLevel
	flashUntil     time.Time
	spinner        spinner.Model
	loading        bool
	title          string
	backendVersion string
}

func NewStatusBar(store *run.Store) StatusBar {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(styles.StatusRunning)
	return StatusBar{store: store, spinner: sp}
}

// Update advances the loading spinner.
func (s StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s StatusBar) View() string {
	sep := styles.TextDimStyle.Render(" │ ")

	appName := "guildview " + Version
	if s.loading {
		appName = s.spinner.View() + " " + appName
	}
	left := " " + styles.TextSecondaryStyle.Render(appName)

	if s.title != "" {
		backend := s.title
		if s.backendVersion != "" {
			backend += " (guild " + s.backendVersion + ")"
		}
		left += sep + styles.TextPrimaryStyle.Render(backend)
	}

	if n := s.store.ActiveRuns(); n > 0 {
		left += sep + styles.TextPrimaryStyle.Render(fmt.Sprintf("%d active", n))
	}

	counts := format.Summarize(format.FormatRuns(s.store.List()))
	if len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, c := range counts {
			style := lipgloss.NewStyle().Foreground(styles.DescriptorColor(c.Descriptor.Color))
			parts = append(parts, style.Render(fmt.Sprintf("%d %s", c.Count, strings.ToLower(c.Descriptor.Tooltip))))
		}
		left += sep + strings.Join(parts, " ")
	}

	if updated := s.store.UpdatedAt(); !updated.IsZero() {
		left += sep + styles.TextSecondaryStyle.Render("updated "+humanize.Time(updated))
	}

	if s.flash != "" && time.Now().Before(s.flashUntil) {
		var icon string
		var color lipgloss.TerminalColor
		switch s.flashLevel {
		case FlashSuccess:
			icon, color = "✓", styles.StatusSuccess
		case FlashError:
			icon, color = "✗", styles.StatusError
		case FlashWarning:
			icon, color = "⚠", styles.StatusWarning
		default: // FlashInfo
			icon, color = "●", styles.StatusRunning
		}
		flashStr := lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon + " " + s.flash)
		left += sep + flashStr
	}

	right := styles.TextSecondaryStyle.Render("?:help") + " "

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *StatusBar) SetFlashWithLevel(msg string, level FlashLevel) {
	s.flash = msg
	s.flashLevel = level
	s.flashUntil = time.Now().Add(flashDurationVal)
}

func (s *StatusBar) ClearFlash() {
	s.flash = ""
	s.flashLevel = FlashInfo
	s.flashUntil = time.Time{}
}

// Flash returns the current flash text, "" once it has expired.
func (s StatusBar) Flash() string {
	if time.Now().After(s.flashUntil) {
		return ""
	}
	return s.flash
}

// SetLoading shows or hides the spinner. Starting it returns the cmd that
// drives its animation.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	wasLoading := s.loading
	s.loading = loading
	if loading && !wasLoading {
		return s.spinner.Tick
	}
	return nil
}

// SpinnerTick starts the spinner animation if a load is already showing.
func (s StatusBar) SpinnerTick() tea.Cmd {
	if !s.loading {
		return nil
	}
	return s.spinner.Tick
}

// Loading reports whether the spinner is shown.
func (s StatusBar) Loading() bool {
	return s.loading
}

// SetBackend records the backend's title label and Guild version.
func (s *StatusBar) SetBackend(title, version string) {
	s.title = title
	s.backendVersion = version
}

func (s *StatusBar) SetSize(w int) {
	s.width = w
}
