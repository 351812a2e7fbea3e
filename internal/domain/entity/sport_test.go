package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSport(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Sport
		wantErr error
	}{
		{name: "empty defaults to boxing", input: "", want: SportBoxing},
		{name: "boxing", input: "boxing", want: SportBoxing},
		{name: "mma", input: "mma", want: SportMMA},
		{name: "upper case", input: "MMA", want: SportMMA},
		{name: "surrounding spaces", input: "  Boxing ", want: SportBoxing},
		{name: "unknown sport", input: "kickboxing", wantErr: ErrInvalidSport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSport(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSport_Texts(t *testing.T) {
	assert.Equal(t, "Upcoming Boxing Events", SportBoxing.Heading())
	assert.Equal(t, "Upcoming MMA Events", SportMMA.Heading())
	assert.Equal(t, "No upcoming boxing events found.", SportBoxing.EmptyMessage())
	assert.Equal(t, "No upcoming MMA events found.", SportMMA.EmptyMessage())
	assert.Equal(t, "Loading boxing events...", SportBoxing.LoadingMessage())
	assert.Equal(t, "Loading MMA events...", SportMMA.LoadingMessage())
}

func TestSport_Valid(t *testing.T) {
	assert.True(t, SportBoxing.Valid())
	assert.True(t, SportMMA.Valid())
	assert.False(t, Sport("ufc").Valid())
}
