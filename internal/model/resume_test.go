package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeNormalizeFillsEmptyLists(t *testing.T) {
	r := Resume{
		Experience: []Experience{{Position: "Engineer"}},
		Projects:   []Project{{Name: "Parser"}},
		Skills:     []string{" Go ", "go", "", "SQL"},
	}
	r.Normalize()

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
	assert.Equal(t, []string{"Go", "SQL"}, r.Skills)
	assert.Equal(t, []string{}, r.Experience[0].Achievements)
	assert.Equal(t, []string{}, r.Projects[0].Technologies)
}

func TestResumeHasContent(t *testing.T) {
	r := Resume{}
	assert.False(t, r.HasContent())

	r.Skills = []string{"Go"}
	assert.True(t, r.HasContent())
}

func TestResumeContextText(t *testing.T) {
	r := Resume{
		PersonalInfo: PersonalInfo{FullName: "Ada Lovelace"},
		Experience:   []Experience{{Position: "Analyst", Company: "Engines Ltd", Duration: "1842"}},
		Skills:       []string{"Math", "Go"},
	}

	text := r.ContextText()
	assert.Contains(t, text, "- Name: Ada Lovelace")
	assert.Contains(t, text, "- Email: N/A")
	assert.Contains(t, text, "- Analyst at Engines Ltd (1842)")
	assert.Contains(t, text, "Skills: Math, Go")
	assert.NotContains(t, text, "Projects:")
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusError.Terminal())
}
