package console

import "github.com/fatih/color"

// Palette holds the colors used for console output.
type Palette struct {
	Planet   *color.Color
	Headline *color.Color
	Prompt   *color.Color
	Error    *color.Color
	Success  *color.Color
	Section  *color.Color
	Heading  *color.Color
}

// NewPalette returns the toolbox colors, or plain output when noColor is set.
func NewPalette(noColor bool) *Palette {
	p := &Palette{
		Planet:   color.New(color.FgBlue),
		Headline: color.New(color.FgGreen),
		Prompt:   color.New(color.FgYellow),
		Error:    color.New(color.FgRed),
		Success:  color.New(color.FgGreen),
		Section:  color.New(color.FgCyan),
		Heading:  color.New(color.FgGreen, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.Planet, p.Headline, p.Prompt, p.Error, p.Success, p.Section, p.Heading} {
			c.DisableColor()
		}
	}
	return p
}
