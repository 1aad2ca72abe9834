package rmlprotocol

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/description_*.yml
var localeFS embed.FS

// Description is one localized explanation of a command.
type Description struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// DescriptionSet is the content of a description_<lang>.yml document.
type DescriptionSet struct {
	Mode1 []Description `yaml:"mode1"`
	Mode2 []Description `yaml:"mode2"`
	Modec []Description `yaml:"modec"`
}

// Find looks name up in mode 1, then mode 2, then mode common.
func (d *DescriptionSet) Find(name string) (string, bool) {
	for _, list := range [][]Description{d.Mode1, d.Mode2, d.Modec} {
		for _, entry := range list {
			if entry.Name == name {
				return entry.Description, true
			}
		}
	}
	return "", false
}

var (
	descriptionsMu sync.Mutex
	descriptions   = map[string]*DescriptionSet{}
)

// Descriptions returns the embedded descriptions for locale. Region
// suffixes fall back to the language ("fr_CA" and "fr-CA" load "fr").
// It returns nil when no document exists for the locale.
func Descriptions(locale string) *DescriptionSet {
	lang := language(locale)
	if lang == "" {
		return nil
	}

	descriptionsMu.Lock()
	defer descriptionsMu.Unlock()

	if set, ok := descriptions[lang]; ok {
		return set
	}
	set, err := loadDescriptions(lang)
	if err != nil {
		set = nil
	}
	descriptions[lang] = set
	return set
}

// Locales lists the languages with embedded descriptions.
func Locales() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(e.Name(), "description_"), ".yml")
		out = append(out, name)
	}
	return out
}

func loadDescriptions(lang string) (*DescriptionSet, error) {
	data, err := localeFS.ReadFile("locales/description_" + lang + ".yml")
	if err != nil {
		return nil, err
	}
	var set DescriptionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse descriptions for %s: %w", lang, err)
	}
	return &set, nil
}

func language(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "_-."); i >= 0 {
		locale = locale[:i]
	}
	return locale
}

// Describe renders a readable form of the command and its arguments,
// followed by the localized explanation when one exists:
//
//	Z axis move (-20);//Moves the tool along the Z axis ...
//
// Describe never fails; missing localization data only drops the suffix.
func (c *Codec) Describe(locale string, args []Argument) string {
	if c.shape.render == renderCall {
		return c.describeCall(locale, args)
	}
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString(" (")
	sb.WriteString(joinArguments(args, ArgumentSeparator))
	sb.WriteString(");")
	if set := Descriptions(locale); set != nil {
		if text, ok := set.Find(c.Name); ok {
			sb.WriteString("//")
			sb.WriteString(text)
		}
	}
	return sb.String()
}

func (c *Codec) describeCall(locale string, args []Argument) string {
	out := c.Name + ": "
	if len(args) == 0 {
		return out
	}
	target, ok := args[0].(CallArgument)
	if !ok {
		return out
	}
	nested := ByID(target.Command)
	if nested == nil {
		return out
	}
	return out + nested.Describe(locale, args[1:])
}
