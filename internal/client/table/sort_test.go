package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort_ToggleCycle(t *testing.T) {
	var s Sort

	s = s.Toggle("subject")
	assert.Equal(t, Sort{Field: "subject", Dir: Asc}, s)

	s = s.Toggle("subject")
	assert.Equal(t, Sort{Field: "subject", Dir: Desc}, s)

	s = s.Toggle("subject")
	assert.Equal(t, Sort{Field: "subject", Dir: Asc}, s)

	s = s.Toggle("priority")
	assert.Equal(t, Sort{Field: "priority", Dir: Asc}, s)
}

func TestSort_Ordering(t *testing.T) {
	assert.Empty(t, Sort{}.Ordering())
	assert.Equal(t, "subject", Sort{Field: "subject", Dir: Asc}.Ordering())
	assert.Equal(t, "-subject", Sort{Field: "subject", Dir: Desc}.Ordering())
}

func TestSort_Indicator(t *testing.T) {
	s := Sort{Field: "subject", Dir: Desc}
	assert.Equal(t, "▼", s.Indicator("subject"))
	assert.Empty(t, s.Indicator("priority"))
	assert.Equal(t, "▲", Sort{Field: "a", Dir: Asc}.Indicator("a"))
}
