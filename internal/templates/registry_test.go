package templates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtin(t *testing.T) *Registry {
	t.Helper()
	r, err := NewBuiltin()
	require.NoError(t, err)
	return r
}

func fullVars(tpl PromptTemplate) map[string]string {
	vars := make(map[string]string, len(tpl.Variables))
	for _, name := range tpl.Variables {
		vars[name] = "value of " + name
	}
	return vars
}

func TestBuiltin_Catalog(t *testing.T) {
	r := builtin(t)

	ids := make([]string, 0)
	for _, tpl := range r.List() {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{"general", "business", "educational", "technical", "creative"}, ids)
	assert.Equal(t, "general", r.DefaultID())

	// order is stable across calls
	assert.Equal(t, r.List(), r.List())
}

func TestRegistry_List_ReturnsCopies(t *testing.T) {
	r := builtin(t)

	list := r.List()
	list[0].Variables[0] = "mutated"

	tpl, err := r.Get(list[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", tpl.Variables[0])
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := builtin(t)

	_, err := r.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistry_RenderAllTemplates(t *testing.T) {
	r := builtin(t)

	for _, tpl := range r.List() {
		t.Run(tpl.ID, func(t *testing.T) {
			vars := fullVars(tpl)

			out, err := r.Render(tpl.ID, vars)
			require.NoError(t, err)
			for _, name := range tpl.Variables {
				assert.NotContains(t, out, "{{"+name+"}}")
				assert.Contains(t, out, vars[name])
			}

			again, err := r.Render(tpl.ID, vars)
			require.NoError(t, err)
			assert.Equal(t, out, again)
		})
	}
}

func TestRegistry_Render_ReplacesEveryOccurrence(t *testing.T) {
	r := builtin(t)

	out, err := r.Render("business", map[string]string{"topic": "quarterly sales review"})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "quarterly sales review"))
}

func TestRegistry_Render_ValuesAreNotExpanded(t *testing.T) {
	r := builtin(t)

	out, err := r.Render("educational", map[string]string{
		"topic":    "{{audience}}",
		"audience": "students",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `"{{audience}}"`)
}

func TestRegistry_ValidateVariables(t *testing.T) {
	r := builtin(t)

	tests := map[string]struct {
		id      string
		vars    map[string]string
		missing []string
	}{
		"empty map reports all in declaration order": {
			id:      "educational",
			vars:    map[string]string{},
			missing: []string{"topic", "audience"},
		},
		"nil map": {
			id:      "creative",
			vars:    nil,
			missing: []string{"topic", "style"},
		},
		"whitespace-only value is missing": {
			id:      "educational",
			vars:    map[string]string{"topic": "go", "audience": " \t\n"},
			missing: []string{"audience"},
		},
		"extra variables are ignored": {
			id:      "general",
			vars:    map[string]string{"topic": "go", "unused": "x"},
			missing: []string{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := r.ValidateVariables(tc.id, tc.vars)
			require.NoError(t, err)
			assert.Equal(t, tc.missing, res.MissingVariables)
			assert.Equal(t, len(tc.missing) == 0, res.IsValid)
		})
	}
}

func TestRegistry_ValidateVariables_CountMatchesDeclared(t *testing.T) {
	r := builtin(t)

	for _, tpl := range r.List() {
		res, err := r.ValidateVariables(tpl.ID, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, tpl.Variables, res.MissingVariables)
	}
}

func TestRegistry_Render_MissingVariables(t *testing.T) {
	r := builtin(t)

	_, err := r.Render("creative", map[string]string{"topic": "space"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingVariables))
	assert.Contains(t, err.Error(), "style")
}

func TestParse_Invariants(t *testing.T) {
	tests := map[string]string{
		"undeclared placeholder": `
templates:
  - {id: a, name: A, max_slides: 3, variables: [topic], template: "{{topic}} {{other}}"}`,
		"unused variable": `
templates:
  - {id: a, name: A, max_slides: 3, variables: [topic, audience], template: "{{topic}}"}`,
		"duplicate id": `
templates:
  - {id: a, name: A, max_slides: 3, variables: [topic], template: "{{topic}}"}
  - {id: a, name: B, max_slides: 3, variables: [topic], template: "{{topic}}"}`,
		"unknown default": `
default: missing
templates:
  - {id: a, name: A, max_slides: 3, variables: [topic], template: "{{topic}}"}`,
		"no templates": `templates: []`,
		"bad max slides": `
templates:
  - {id: a, name: A, max_slides: 0, variables: [topic], template: "{{topic}}"}`,
		"not yaml": `templates: [`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
templates:
  - id: pitch
    name: Pitch
    description: Startup pitch
    max_slides: 6
    variables: [topic]
    template: "Pitch {{topic}} in six slides."
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pitch", r.DefaultID())

	out, err := r.Render("pitch", map[string]string{"topic": "a rocket"})
	require.NoError(t, err)
	assert.Equal(t, "Pitch a rocket in six slides.", out)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b_2"}, Placeholders("{{a}} {{ b }} {{b_2}} {{a}} {a}"))
	assert.Nil(t, Placeholders("no placeholders"))
}
