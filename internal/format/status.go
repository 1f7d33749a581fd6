// Package format turns run data into display values: status descriptors,
// scalar text, file sizes and flag values. Everything here is pure.
package format

import (
	"sort"

	"github.com/justinpbarnett/guildview/internal/run"
)

// StatusDescriptor is how a run status is shown: a color name, an icon name
// and a tooltip. Color and icon names follow the Material Design vocabulary
// the view backend uses for its own file icons.
type StatusDescriptor struct {
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Tooltip string `json:"tooltip"`
}

// Describe maps a run status to its descriptor. Unknown statuses get a grey
// help icon with the raw status as tooltip.
func Describe(status string) StatusDescriptor {
	switch run.Status(status) {
	case run.StatusCompleted:
		return StatusDescriptor{Color: "green", Icon: "check-circle", Tooltip: "Completed"}
	case run.StatusError:
		return StatusDescriptor{Color: "red", Icon: "alert", Tooltip: "Failed"}
	case run.StatusTerminated:
		return StatusDescriptor{Color: "teal lighten-2", Icon: "close-circle", Tooltip: "Terminated"}
	case run.StatusRunning:
		return StatusDescriptor{Color: "orange", Icon: "dots-horizontal-circle", Tooltip: "Running"}
	default:
		return StatusDescriptor{Color: "grey", Icon: "help-circle", Tooltip: status}
	}
}

// FormattedRun is a run paired with the descriptor derived from its status.
type FormattedRun struct {
	run.Run
	Icon StatusDescriptor `json:"icon"`
}

// FormatRuns returns a new slice, same length and order as runs, with each
// run's status descriptor attached. runs is not modified.
func FormatRuns(runs []run.Run) []FormattedRun {
	formatted := make([]FormattedRun, len(runs))
	for i, r := range runs {
		formatted[i] = FormatRun(r)
	}
	return formatted
}

// FormatRun pairs r with the icon for its status.
func FormatRun(r run.Run) FormattedRun {
	return FormattedRun{Run: r, Icon: Describe(string(r.Status))}
}

// StatusCount is the number of runs sharing one status.
type StatusCount struct {
	Status     run.Status
	Descriptor StatusDescriptor
	Count      int
}

var summaryOrder = []run.Status{
	run.StatusRunning,
	run.StatusCompleted,
	run.StatusError,
	run.StatusTerminated,
}

// Summarize counts runs per status. Known statuses come first in a fixed
// order, other statuses follow alphabetically. Statuses with no runs are
// omitted.
func Summarize(runs []FormattedRun) []StatusCount {
	counts := make(map[run.Status]int)
	for _, r := range runs {
		counts[r.Status]++
	}

	var result []StatusCount
	for _, st := range summaryOrder {
		if n := counts[st]; n > 0 {
			result = append(result, StatusCount{Status: st, Descriptor: Describe(string(st)), Count: n})
		}
		delete(counts, st)
	}

	others := make([]run.Status, 0, len(counts))
	for st := range counts {
		others = append(others, st)
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })
	for _, st := range others {
		result = append(result, StatusCount{Status: st, Descriptor: Describe(string(st)), Count: counts[st]})
	}
	return result
}
