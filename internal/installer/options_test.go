package installer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cmskit/internal/installer"
)

func TestParseChoice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{in: "1", want: true},
		{in: "0", want: false},
		{in: "Yes", want: true},
		{in: "no", want: false},
		{in: " true ", want: true},
		{in: "FALSE", want: false},
		{in: "pest", want: true},
		{in: "PHPUnit", want: false},
		{in: "2", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := installer.ParseChoice(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompts(t *testing.T) {
	t.Parallel()

	pest := installer.PestPrompt()
	assert.Equal(t, "Which testing framework do you prefer?", pest.Question)
	assert.Equal(t, installer.Choice{Value: "1", Label: "Pest"}, pest.DefaultChoice())

	backup := installer.BackupPrompt()
	assert.Equal(t, "Would you like to backup the original files?", backup.Question)
	assert.Equal(t, installer.Choice{Value: "0", Label: "No"}, backup.DefaultChoice())

	c, ok := pest.Match("phpunit")
	require.True(t, ok)
	assert.Equal(t, "0", c.Value)

	c, ok = backup.Match(" 1 ")
	require.True(t, ok)
	assert.Equal(t, "Yes", c.Label)

	_, ok = backup.Match("maybe")
	assert.False(t, ok)
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := installer.DefaultOptions()
	assert.True(t, opts.Pest)
	assert.False(t, opts.Backup)
	assert.Equal(t, "global", opts.Composer)
}
