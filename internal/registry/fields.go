package registry

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/phrazzld/casebook/internal/domain"
)

// Field keys with typed accessors.
const (
	KeyInsurance            = "insurance"
	KeyExternalPledgeSource = "external_pledge_source"
	KeyPledgeLimitHelpText  = "pledge_limit_help_text"
	KeyLanguage             = "language"
	KeyResourcesURL         = "resources_url"
	KeyPracticalSupport     = "practical_support"
	KeyReferredBy           = "referred_by"
	KeyFaxService           = "fax_service"
	KeyStartOfWeek          = "start_of_week"
	KeyBudgetBarMax         = "budget_bar_max"
	KeyHidePracticalSupport = "hide_practical_support"
)

const commaHelp = "Please separate with commas."

// DefaultFields returns the built-in field table in reconciliation order.
// Each call returns a fresh copy.
func DefaultFields() []domain.FieldDefinition {
	return []domain.FieldDefinition{
		{Key: KeyInsurance, DefaultOptions: []string{"DC Medicaid", "No insurance", "Don't know"}, HelpText: commaHelp},
		{Key: KeyExternalPledgeSource, DefaultOptions: []string{}, HelpText: commaHelp},
		{Key: KeyPledgeLimitHelpText, DefaultOptions: []string{}, HelpText: commaHelp},
		{Key: KeyLanguage, DefaultOptions: []string{"Spanish"}, HelpText: commaHelp},
		{
			Key:            KeyResourcesURL,
			DefaultOptions: []string{},
			HelpText:       "A link to a Google Drive folder with CM resources. Ex: https://drive.google.com/drive/my-resource-dir",
		},
		{
			Key:            KeyPracticalSupport,
			DefaultOptions: []string{"Travel to the region", "Travel inside the region", "Lodging", "Companion"},
			HelpText:       commaHelp,
		},
		{Key: KeyReferredBy, DefaultOptions: []string{}, HelpText: commaHelp},
		{Key: KeyFaxService, DefaultOptions: []string{}, HelpText: "A link to your fax service. ex: https://www.efax.com"},
		{
			Key:            KeyStartOfWeek,
			DefaultOptions: []string{"Monday"},
			HelpText: "How to render your budget bar. Default is weekly starting on Monday. " +
				"Enter a day of the week to start the week on that day.",
		},
		{Key: KeyBudgetBarMax, DefaultOptions: []string{"1000"}, HelpText: "Maximum value of the budget bar, in dollars."},
		{Key: KeyHidePracticalSupport, DefaultOptions: []string{"No"}, HelpText: `Enter "Yes" to hide the Practical Support tab.`},
	}
}

type fieldFile struct {
	Fields []domain.FieldDefinition `yaml:"fields"`
}

// LoadFields reads a field table from YAML of the form
//
//	fields:
//	  - key: insurance
//	    default_options: [DC Medicaid, No insurance]
//	    help_text: Please separate with commas.
//
// The table is validated before it is returned.
func LoadFields(r io.Reader) ([]domain.FieldDefinition, error) {
	var file fieldFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no fields defined", ErrInvalidFieldTable)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFieldTable, err)
	}
	if err := ValidateFields(file.Fields); err != nil {
		return nil, err
	}
	return file.Fields, nil
}

// LoadFieldsFile reads a field table from the YAML file at path.
func LoadFieldsFile(path string) ([]domain.FieldDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening field table: %w", err)
	}
	defer func() { _ = f.Close() }()

	fields, err := LoadFields(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}

// ValidateFields checks that a table is non-empty and that every key is
// present and unique. All problems are reported together.
func ValidateFields(fields []domain.FieldDefinition) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields defined", ErrInvalidFieldTable)
	}

	var result *multierror.Error
	seen := make(map[string]int, len(fields))
	for i, f := range fields {
		if err := f.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("field %d: %w", i, err))
			continue
		}
		if prev, dup := seen[f.Key]; dup {
			result = multierror.Append(result, fmt.Errorf("field %d: key %q repeats field %d", i, f.Key, prev))
			continue
		}
		seen[f.Key] = i
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFieldTable, err)
	}
	return nil
}
