package console

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

const (
	menuInstructions = "Please select an action from the menu by entering the corresponding number when prompted."
	notAnInteger     = "Your input could not be cast to an integer and is therefore invalid. Please try again..."

	// InvalidChoice is printed when a selection is a number outside the menu.
	InvalidChoice = "Not a valid menu choice, try again..."
)

// Menu is a numbered list of actions.
type Menu struct {
	Items []string
}

// NewMenu creates a menu of items, numbered from zero.
func NewMenu(items ...string) Menu {
	return Menu{Items: items}
}

// Render writes the instructions and the numbered items.
func (m Menu) Render(p *Prompter) {
	p.palette.Prompt.Fprintln(p.out, menuInstructions)
	for i, item := range m.Items {
		fmt.Fprintf(p.out, "[%d]: %s\n", i, item)
	}
}

// Select shows the menu until the user enters a whole number. The number is returned as-is;
// range checks are left to the caller.
func (m Menu) Select(p *Prompter) (int, error) {
	for {
		m.Render(p)
		answer, err := p.AskOptional("Please enter your selection")
		if err != nil {
			return -1, err
		}
		choice, err := cast.ToIntE(strings.TrimSpace(answer))
		if answer == "" || err != nil {
			fmt.Fprintln(p.out, notAnInteger)
			continue
		}
		return choice, nil
	}
}
