// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `PART ONE
THE PROFESSION OF FAITH

26 We begin our profession of faith by saying: "I believe" or "We believe."

27
The desire for God is written in the human heart,
because man is created by God and for God. 1

28 In many ways, throughout history down to the present day,
men have given expression to their quest for God.
`

func TestLocate(t *testing.T) {
	tests := []struct {
		name string
		text string
		id   string
		want string
	}{
		{
			name: "number on its own line",
			text: sampleText,
			id:   "27",
			want: "The desire for God is written in the human heart,\nbecause man is created by God and for God. 1",
		},
		{
			name: "number and body on one line",
			text: sampleText,
			id:   "26",
			want: `We begin our profession of faith by saying: "I believe" or "We believe."`,
		},
		{
			name: "last paragraph runs to end of text",
			text: sampleText,
			id:   "28",
			want: "In many ways, throughout history down to the present day,\nmen have given expression to their quest for God.",
		},
		{
			name: "body between neighbouring markers only",
			text: "26 Before.\n27 Text here.\n28 After.",
			id:   "27",
			want: "Text here.",
		},
		{
			name: "surrounding whitespace and blank lines",
			text: "   \n\n   27   \n\n  legitimate text  \n\n",
			id:   "27",
			want: "legitimate text",
		},
		{
			name: "first paragraph at start of text",
			text: "1 The first.\n2 The second.",
			id:   "1",
			want: "The first.",
		},
		{
			name: "tab separator",
			text: "27\tTabbed body",
			id:   "27",
			want: "Tabbed body",
		},
		{
			name: "crlf line endings",
			text: "27\r\nText.\r\n28\r\nMore",
			id:   "27",
			want: "Text.",
		},
		{
			name: "longer number sharing a prefix is skipped",
			text: "123 Long.\n12 Short.",
			id:   "12",
			want: "Short.",
		},
		{
			name: "zero-padded paragraph only matches padded id",
			text: "05 Padded.\n5 Plain.",
			id:   "5",
			want: "Plain.",
		},
		{
			name: "first match wins",
			text: "7 First.\n8 Between.\n7 Second.",
			id:   "7",
			want: "First.",
		},
		{
			name: "line starting with a digit ends the paragraph",
			text: "27 The year\n1994 saw the edition.\n",
			id:   "27",
			want: "The year",
		},
		{
			name: "indented continuation lines stay in the body",
			text: "27 One\n   two\n\n   three\n",
			id:   "27",
			want: "One\n   two\n\n   three",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Locate(tt.text, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocate_NotFound(t *testing.T) {
	tests := []struct {
		name string
		text string
		id   string
	}{
		{name: "absent identifier", text: sampleText, id: "29"},
		{name: "numeric value is not enough", text: "5 Plain.", id: "05"},
		{name: "number inside a line", text: "See 27 for more.\n", id: "27"},
		{name: "number glued to text", text: "27Text\n", id: "27"},
		{name: "empty identifier", text: sampleText, id: ""},
		{name: "empty document", text: "", id: "1"},
		{name: "identifier at end of text", text: "26 Body.\n27", id: "27"},
		{name: "identifier with whitespace only", text: "26 Body.\n27 \n", id: "27"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Locate(tt.text, tt.id)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Empty(t, got)
		})
	}
}

func TestLocate_AbsentForEveryUnusedNumber(t *testing.T) {
	for _, id := range []string{"0", "2", "25", "260", "2700", "-27", "27.", "abc"} {
		_, err := Locate(sampleText, id)
		assert.ErrorIs(t, err, ErrNotFound, "id %q", id)
	}
}
