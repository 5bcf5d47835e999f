package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhases(t *testing.T) {
	{ // Names round trip through the lookup map
		for i := 0; i < NPhases; i++ {
			p, err := NewPhase(Phase(i).Print())
			require.NoError(t, err)
			assert.Equal(t, Phase(i), p)
		}
		p, err := NewPhase("  csh ")
		require.NoError(t, err)
		assert.Equal(t, CSH, p)
		_, err = NewPhase("unobtainium")
		assert.Error(t, err)
		assert.Equal(t, "PHASE(200)", Phase(200).Print())
	}
	{ // Diffusing species collapse onto their solids
		p, ok := ConvertID(int(DIFFCSH), 7.0)
		assert.True(t, ok)
		assert.Equal(t, CSH, p)
		p, ok = ConvertID(int(DIFFSO4), 7.0)
		assert.True(t, ok)
		assert.Equal(t, GYPSUMS, p)
		assert.True(t, DIFFCH.IsDiffusing())
		assert.False(t, CH.IsDiffusing())
		p, ok = ConvertID(int(AGG), 7.0)
		assert.True(t, ok)
		assert.Equal(t, AGG, p)
	}
	{ // Range checks
		_, ok := ConvertID(-1, 7.0)
		assert.False(t, ok)
		_, ok = ConvertID(int(NSP)+1, 7.0)
		assert.False(t, ok)
	}
	{ // Legacy images lack the two alkali sulfate labels
		p, ok := ConvertID(5, 2.0)
		assert.True(t, ok)
		assert.Equal(t, GYPSUM, p)
		p, ok = ConvertID(int(C4AF), 2.0)
		assert.True(t, ok)
		assert.Equal(t, C4AF, p)
		_, ok = ConvertID(int(NSP)-1, 2.0)
		assert.False(t, ok)
	}
}
