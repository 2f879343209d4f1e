package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFields(t *testing.T) {
	t.Parallel()
	fields := DefaultFields()

	require.NoError(t, ValidateFields(fields))
	require.Len(t, fields, 11)
	assert.Equal(t, KeyInsurance, fields[0].Key)
	assert.Equal(t, KeyHidePracticalSupport, fields[len(fields)-1].Key)

	// Each call hands out an independent table.
	fields[0].DefaultOptions[0] = "changed"
	assert.Equal(t, "DC Medicaid", DefaultFields()[0].DefaultOptions[0])
}

func TestLoadFields(t *testing.T) {
	t.Parallel()
	doc := `
fields:
  - key: insurance
    default_options: [Medicaid, Private]
    help_text: Please separate with commas.
  - key: start_of_week
    default_options:
      - Sunday
  - key: fax_service
`
	fields, err := LoadFields(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "insurance", fields[0].Key)
	assert.Equal(t, []string{"Medicaid", "Private"}, fields[0].DefaultOptions)
	assert.Equal(t, "Please separate with commas.", fields[0].HelpText)
	assert.Equal(t, []string{"Sunday"}, fields[1].DefaultOptions)
	assert.Empty(t, fields[2].DefaultOptions)
	assert.Empty(t, fields[2].HelpText)
}

func TestLoadFieldsRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty document": "",
		"no fields":      "fields: []\n",
		"unknown field":  "fields:\n  - key: language\n    defaults: [Spanish]\n",
		"blank key":      "fields:\n  - key: ''\n",
		"duplicate key":  "fields:\n  - key: language\n  - key: language\n",
		"not yaml":       "fields: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFields(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidFieldTable)
		})
	}
}

func TestLoadFieldsFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  - key: language\n    default_options: [Spanish]\n"), 0o600))

	fields, err := LoadFieldsFile(path)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "language", fields[0].Key)

	_, err = LoadFieldsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
