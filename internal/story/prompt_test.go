package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTail(t *testing.T) {
	assert.Equal(t, "kort", Tail("kort", 50))
	assert.Equal(t, "eind", Tail("het eind", 4))
	assert.Equal(t, "🍕!", Tail("pizza 🍕!", 2))
	assert.Equal(t, "", Tail("", 50))
}

func TestPartPromptShortPrevious(t *testing.T) {
	p := PartPrompt("ijs", 2, "Het ijs wordt zoet.", "Brrr ❄️")
	assert.Contains(t, p, `Vorig deel eindigde met: "Brrr ❄️..."`)
	assert.Contains(t, p, `het ontstaan van "ijs"`)
}

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan(pizzaPlan)
	require.NoError(t, err)
	assert.Equal(t, "Een bakker in Napels bakt plat brood.", p.Part(1))
	assert.Equal(t, "Nu eet de hele wereld pizza.", p.Part(3))
	assert.Equal(t, "", p.Part(4))
	assert.Len(t, p.Slice(), 3)

	_, err = ParsePlan("not json")
	assert.Error(t, err)
	_, err = ParsePlan("")
	assert.Error(t, err)
}

func TestParsePlanRejectsNonObjects(t *testing.T) {
	for _, completion := range []string{"null", `"deel1"`, "42", `["a","b","c"]`} {
		_, err := ParsePlan(completion)
		assert.Error(t, err, completion)
	}
}

func TestParsePlanKeysMatchExactly(t *testing.T) {
	p, err := ParsePlan(`{"DEEL1":"groot","deel2":"klein","deel3":3}`)
	require.NoError(t, err)
	assert.Equal(t, "", p.Deel1)
	assert.Equal(t, "klein", p.Deel2)
	assert.Equal(t, "3", p.Deel3)
}
