package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

var (
	ErrNotFound         = errors.New("template not found")
	ErrMissingVariables = errors.New("missing template variables")
	ErrInvalidCatalog   = errors.New("invalid template catalog")
	placeholderRegexp   = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)
)

// PromptTemplate is a reusable generation recipe.
// Variables enumerates every {{name}} placeholder present in Template.
type PromptTemplate struct {
	ID          string   `yaml:"id" json:"id" example:"business"`
	Name        string   `yaml:"name" json:"name" example:"Business"`
	Description string   `yaml:"description" json:"description"`
	Template    string   `yaml:"template" json:"template"`
	Variables   []string `yaml:"variables" json:"variables"`
	MaxSlides   int      `yaml:"max_slides" json:"max_slides" example:"15"`
}

type ValidationResult struct {
	IsValid          bool     `json:"is_valid"`
	MissingVariables []string `json:"missing_variables"`
}

type catalog struct {
	Default   string           `yaml:"default"`
	Templates []PromptTemplate `yaml:"templates"`
}

// Registry is an immutable, order-stable template catalog.
type Registry struct {
	templates []PromptTemplate
	byID      map[string]int
	defaultID string
}

// NewBuiltin returns the registry backed by the embedded catalog.
func NewBuiltin() (*Registry, error) {
	return Parse(builtinCatalog)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and checks the template invariants.
func Parse(data []byte) (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if len(c.Templates) == 0 {
		return nil, fmt.Errorf("%w: no templates", ErrInvalidCatalog)
	}

	r := &Registry{
		templates: make([]PromptTemplate, 0, len(c.Templates)),
		byID:      make(map[string]int, len(c.Templates)),
		defaultID: c.Default,
	}
	for _, t := range c.Templates {
		if err := checkTemplate(t); err != nil {
			return nil, err
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, t.ID)
		}
		r.byID[t.ID] = len(r.templates)
		r.templates = append(r.templates, t)
	}

	if r.defaultID == "" {
		r.defaultID = r.templates[0].ID
	}
	if _, ok := r.byID[r.defaultID]; !ok {
		return nil, fmt.Errorf("%w: default template %q is not defined", ErrInvalidCatalog, r.defaultID)
	}
	return r, nil
}

func checkTemplate(t PromptTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("%w: template without id", ErrInvalidCatalog)
	}
	if strings.TrimSpace(t.Template) == "" {
		return fmt.Errorf("%w: template %q has empty text", ErrInvalidCatalog, t.ID)
	}
	if t.MaxSlides <= 0 {
		return fmt.Errorf("%w: template %q has non-positive max_slides", ErrInvalidCatalog, t.ID)
	}

	present := Placeholders(t.Template)
	for _, name := range present {
		if !slices.Contains(t.Variables, name) {
			return fmt.Errorf("%w: template %q uses undeclared placeholder {{%s}}", ErrInvalidCatalog, t.ID, name)
		}
	}
	for _, name := range t.Variables {
		if !slices.Contains(present, name) {
			return fmt.Errorf("%w: template %q declares unused variable %q", ErrInvalidCatalog, t.ID, name)
		}
	}
	return nil
}

// Placeholders returns the distinct placeholder names of text in order of first use.
func Placeholders(text string) []string {
	var names []string
	for _, m := range placeholderRegexp.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// DefaultID is the template used when a request names none.
func (r *Registry) DefaultID() string {
	return r.defaultID
}

func (r *Registry) List() []PromptTemplate {
	out := make([]PromptTemplate, len(r.templates))
	for i, t := range r.templates {
		out[i] = clone(t)
	}
	return out
}

func (r *Registry) Get(id string) (PromptTemplate, error) {
	i, ok := r.byID[id]
	if !ok {
		return PromptTemplate{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return clone(r.templates[i]), nil
}

// ValidateVariables reports declared variables that are absent or blank,
// in declaration order.
func (r *Registry) ValidateVariables(id string, vars map[string]string) (ValidationResult, error) {
	t, err := r.Get(id)
	if err != nil {
		return ValidationResult{}, err
	}

	missing := make([]string, 0)
	for _, name := range t.Variables {
		if strings.TrimSpace(vars[name]) == "" {
			missing = append(missing, name)
		}
	}
	return ValidationResult{
		IsValid:          len(missing) == 0,
		MissingVariables: missing,
	}, nil
}

// Render substitutes every occurrence of each declared placeholder.
// Substitution is a single pass, so placeholders inside values stay literal.
func (r *Registry) Render(id string, vars map[string]string) (string, error) {
	res, err := r.ValidateVariables(id, vars)
	if err != nil {
		return "", err
	}
	if !res.IsValid {
		return "", fmt.Errorf("%w: %s", ErrMissingVariables, strings.Join(res.MissingVariables, ", "))
	}

	t := r.templates[r.byID[id]]
	pairs := make([]string, 0, 2*len(t.Variables))
	for _, name := range t.Variables {
		pairs = append(pairs, "{{"+name+"}}", vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(t.Template), nil
}

func clone(t PromptTemplate) PromptTemplate {
	t.Variables = slices.Clone(t.Variables)
	return t
}
