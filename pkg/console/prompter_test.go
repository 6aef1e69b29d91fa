package console_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string, confirm bool) (*console.Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return console.NewPrompter(strings.NewReader(input), out, confirm, console.NewPalette(true)), out
}

func TestPrompter_AskOptional(t *testing.T) {
	t.Run("confirmed answer", func(t *testing.T) {
		p, out := newPrompter("mydb\ny\n", true)

		answer, err := p.AskOptional("Please enter a name")
		require.NoError(t, err)
		assert.Equal(t, "mydb", answer)
		assert.Contains(t, out.String(), "Please enter a name: \n")
		assert.Contains(t, out.String(), "You have entered: mydb, is this correct?(Y/N): ")
	})

	t.Run("rejected answer asks again", func(t *testing.T) {
		p, out := newPrompter("wrong\nN\nright\nY\n", true)

		answer, err := p.AskOptional("Name")
		require.NoError(t, err)
		assert.Equal(t, "right", answer)
		assert.Equal(t, 2, strings.Count(out.String(), "Name: "))
	})

	t.Run("empty answer is allowed", func(t *testing.T) {
		p, _ := newPrompter("\ny\n", true)

		answer, err := p.AskOptional("Region")
		require.NoError(t, err)
		assert.Empty(t, answer)
	})

	t.Run("confirmation disabled", func(t *testing.T) {
		p, out := newPrompter("mydb\n", false)

		answer, err := p.AskOptional("Name")
		require.NoError(t, err)
		assert.Equal(t, "mydb", answer)
		assert.NotContains(t, out.String(), "You have entered")
	})

	t.Run("end of input", func(t *testing.T) {
		p, _ := newPrompter("mydb\n", true)

		_, err := p.AskOptional("Name")
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("last line without newline", func(t *testing.T) {
		p, _ := newPrompter("mydb", false)

		answer, err := p.AskOptional("Name")
		require.NoError(t, err)
		assert.Equal(t, "mydb", answer)
	})
}

func TestPrompter_Ask(t *testing.T) {
	p, out := newPrompter("\n  \ncollection\n", false)

	answer, err := p.Ask("Collection")
	require.NoError(t, err)
	assert.Equal(t, "collection", answer)
	assert.Equal(t, 2, strings.Count(out.String(), "This value cannot be blank"))
}

func TestPrompter_AskInt(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		want   int
		parsed bool
	}{
		{name: "number", input: "12\n", want: 12, parsed: true},
		{name: "empty", input: "\n", want: 5, parsed: false},
		{name: "not a number", input: "lots\n", want: 5, parsed: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newPrompter(tc.input, false)

			n, parsed, err := p.AskInt("How many", 5)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
			assert.Equal(t, tc.parsed, parsed)
		})
	}
}
