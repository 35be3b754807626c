package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirthDate(t *testing.T) {
	t.Run("accepts DD.MM.YYYY", func(t *testing.T) {
		date, err := ParseBirthDate("15.05.1990")
		require.NoError(t, err)
		assert.Equal(t, 1990, date.Year())
		assert.Equal(t, "15.05.1990", FormatBirthDate(date))
	})

	t.Run("rejects other formats", func(t *testing.T) {
		for _, raw := range []string{"1990-05-15", "15/05/1990", "15.5.1990", "32.01.2000", "", "yesterday"} {
			_, err := ParseBirthDate(raw)
			assert.Error(t, err, raw)
		}
	})
}
