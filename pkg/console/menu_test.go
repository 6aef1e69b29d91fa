package console_test

import (
	"io"
	"strings"
	"testing"

	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenu_Select(t *testing.T) {
	menu := console.NewMenu("Manage Accounts", "Manage Resources", "Help", "Exit")

	t.Run("valid selection", func(t *testing.T) {
		p, out := newPrompter("1\n", false)

		choice, err := menu.Select(p)
		require.NoError(t, err)
		assert.Equal(t, 1, choice)
		assert.Contains(t, out.String(), "[0]: Manage Accounts\n")
		assert.Contains(t, out.String(), "[3]: Exit\n")
	})

	t.Run("non integer input shows the menu again", func(t *testing.T) {
		p, out := newPrompter("two\n2\n", false)

		choice, err := menu.Select(p)
		require.NoError(t, err)
		assert.Equal(t, 2, choice)
		assert.Contains(t, out.String(), "Your input could not be cast to an integer and is therefore invalid. Please try again...")
		assert.Equal(t, 2, strings.Count(out.String(), "[0]: Manage Accounts"))
	})

	t.Run("out of range numbers are returned", func(t *testing.T) {
		p, _ := newPrompter("42\n", false)

		choice, err := menu.Select(p)
		require.NoError(t, err)
		assert.Equal(t, 42, choice)
	})

	t.Run("end of input", func(t *testing.T) {
		p, _ := newPrompter("", false)

		_, err := menu.Select(p)
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestBannerAndHelp(t *testing.T) {
	p, out := newPrompter("", false)

	console.Banner(out, p.Palette())
	console.Help(out, p.Palette())
	console.AuthGuidance(out, p.Palette())

	text := out.String()
	assert.Contains(t, text, "Automation Tools")
	assert.Contains(t, text, "Azure CosmosDB")
	assert.Contains(t, text, "Menu Items: ")
	assert.Contains(t, text, "[8]: Delete documents by query")
	assert.Contains(t, text, "AZURE_AUTH_LOCATION")
}
