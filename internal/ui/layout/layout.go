// Package layout splits the terminal into the dashboard's four panels and
// the status bar.
package layout

// Rect is a panel size in cells.
type Rect struct {
	Width  int
	Height int
}

// Layout holds the computed dimensions for all panels:
//
//	RunList | Overview
//	Files   | Output
//	status bar
type Layout struct {
	TermWidth  int
	TermHeight int
	TooSmall   bool

	RunList  Rect
	Overview Rect
	Files    Rect
	Output   Rect

	StatusBarWidth int
}

const (
	MinWidth  = 80
	MinHeight = 24

	TopRowWeight  = 0.55
	LeftColWeight = 0.45
)

// Calculate computes panel dimensions from the terminal size. One row is
// reserved for the status bar before splitting. Below MinWidth x MinHeight
// the layout is marked TooSmall and left empty.
func Calculate(termWidth, termHeight int) Layout {
	l := Layout{
		TermWidth:  termWidth,
		TermHeight: termHeight,
	}

	if termWidth < MinWidth || termHeight < MinHeight {
		l.TooSmall = true
		return l
	}

	usable := termHeight - 1
	topH := int(float64(usable) * TopRowWeight)
	bottomH := usable - topH

	leftW := int(float64(termWidth) * LeftColWeight)
	rightW := termWidth - leftW

	l.RunList = Rect{Width: leftW, Height: topH}
	l.Overview = Rect{Width: rightW, Height: topH}
	l.Files = Rect{Width: leftW, Height: bottomH}
	l.Output = Rect{Width: rightW, Height: bottomH}
	l.StatusBarWidth = termWidth

	return l
}
