package definition

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tturner/lingo/internal/validation"
	"github.com/tturner/lingo/internal/wizard"
)

func TestLoadYAML(t *testing.T) {
	def, err := LoadAndValidate(filepath.Join("testdata", "add_user.yml"))
	require.NoError(t, err)

	assert.Equal(t, "add-user", def.Name)
	var ids []string
	for _, s := range def.Steps {
		ids = append(ids, s.ID)
	}
	if diff := cmp.Diff([]string{"account-details", "zone", "group", "confirm"}, ids); diff != "" {
		t.Fatalf("step ids mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, wizard.KindText, def.Steps[0].Fields[0].Kind)
	assert.Empty(t, def.Warnings())

	opts, err := def.WizardOptions()
	require.NoError(t, err)
	assert.True(t, opts.ValidationEnabled)
	assert.True(t, opts.DisableInputFields)
	assert.Equal(t, "Create", opts.Labels.Submit)
	assert.Equal(t, "Next", opts.Labels.Next)
	assert.Equal(t, 150*time.Millisecond, opts.InDuration)
	assert.Equal(t, time.Duration(0), opts.OutDuration)

	check, ok := opts.RemoteChecks["account-details"]
	require.True(t, ok)
	assert.Equal(t, "/users/check", check.URL)
	require.NotNil(t, check.Success)
	assert.True(t, check.Success([]byte("name available")))
	assert.False(t, check.Success([]byte("taken")))
}

func TestLoadJSONC(t *testing.T) {
	def, err := LoadAndValidate(filepath.Join("testdata", "add_user.jsonc"))
	require.NoError(t, err)
	assert.Equal(t, "add_user", def.Name)
	assert.Equal(t, "account-details", def.Steps[0].ID)

	opts, err := def.WizardOptions()
	require.NoError(t, err)
	assert.True(t, opts.HistoryEnabled)
	assert.False(t, opts.DisableInputFields)
	assert.Nil(t, opts.RemoteChecks)
}

func TestFormCopiesDefaults(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "add_user.yml"))
	require.NoError(t, err)

	form := def.Form()
	assert.Equal(t, "/users/add", form.Action)
	notify := form.Step("confirm").Field("notify")
	require.NotNil(t, notify)
	assert.True(t, notify.Checked)
	assert.True(t, notify.DefaultChecked)
	assert.Equal(t, "tempZone", form.Step("zone").Field("zone").Default)

	notify.Checked = false
	assert.True(t, def.Form().Step("confirm").Field("notify").Checked, "forms must not share fields")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	def, err := Parse([]byte(`
steps:
  - title: One
    fields:
      - { kind: text }
      - { name: b, kind: slider }
  - id: one
  - description: no id
  - id: remote
    remote: { url: "" }
options:
  in_duration: soon
`), "yaml")
	require.NoError(t, err)

	err = def.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldName)
	assert.ErrorIs(t, err, ErrFieldKind)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Contains(t, err.Error(), "remote check has no url")
	assert.Contains(t, err.Error(), "bad duration")

	assert.ErrorIs(t, (&Definition{}).Validate(), ErrNoSteps)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("steps: []\nstepz: []\n"), "yaml")
	assert.Error(t, err)
	_, err = Parse([]byte(`{"stepz": []}`), "json")
	assert.Error(t, err)
	_, err = Parse([]byte(`steps = []`), "toml")
	assert.Error(t, err)
}

func TestWarnings(t *testing.T) {
	def := &Definition{
		Steps: []StepDef{
			{ID: "a", Fields: []FieldDef{{Name: "go", Kind: wizard.KindText, Value: "nowhere", Classes: []string{"link"}}}},
			{ID: "b"},
		},
		Validation: validation.Config{Rules: map[string]validation.Rule{"ghost": {Required: true}}},
	}
	warnings := def.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], `unknown step "nowhere"`)
	assert.Contains(t, warnings[1], `unknown field "ghost"`)
}

func TestSaveRoundTrip(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "add_user.yml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yml")
	require.NoError(t, Save(path, def))
	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadAndValidate(path)
	require.NoError(t, err)
	assert.Equal(t, def.Steps[0].ID, again.Steps[0].ID)
	assert.Equal(t, def.Validation, again.Validation)
}

func TestDefinitionDrivesWizard(t *testing.T) {
	def, err := LoadAndValidate(filepath.Join("testdata", "add_user.yml"))
	require.NoError(t, err)
	opts, err := def.WizardOptions()
	require.NoError(t, err)
	opts.RemoteChecks = nil

	form := def.Form()
	w := wizard.New(form, wizard.Capabilities{Validator: validation.New()})
	require.NoError(t, w.Init(opts, def.Rules(), nil))

	assert.ErrorIs(t, w.Next(), wizard.ErrValidation)

	account := form.Step("account-details")
	account.Field("user_name").Value = "rods"
	account.Field("user_type").Value = "group"
	require.NoError(t, w.Next())

	st, err := w.State()
	require.NoError(t, err)
	assert.Equal(t, "group", st.Current)
	assert.True(t, st.IsLastStep)
}

func TestShippedDefinitions(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "wizards", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			def, err := LoadAndValidate(path)
			require.NoError(t, err)
			assert.Empty(t, def.Warnings())
			_, err = def.WizardOptions()
			require.NoError(t, err)
		})
	}
}

func TestAddUserDefinitionMatchesUserEndpoints(t *testing.T) {
	def, err := LoadAndValidate(filepath.Join("..", "..", "wizards", "add-user.yml"))
	require.NoError(t, err)

	userTypes := []string{"rodsuser", "rodsadmin", "groupadmin"}
	var checked *StepDef
	for i := range def.Steps {
		if def.Steps[i].Remote != nil {
			checked = &def.Steps[i]
		}
	}
	require.NotNil(t, checked)
	assert.Equal(t, "/users/ajax_user_search_user_type", checked.Remote.URL)
	assert.Empty(t, checked.Remote.SuccessContains)

	var typeField *FieldDef
	for i, f := range checked.Fields {
		if f.Name == "userType" {
			typeField = &checked.Fields[i]
		}
	}
	require.NotNil(t, typeField)
	assert.NotContains(t, typeField.Classes, "link")
	for _, opt := range typeField.Options {
		assert.Contains(t, userTypes, opt.Value)
	}
}
