// Package catalog holds the engine's DOF, switch, script and callback tables.
// A Catalog is immutable once built and is passed to the exporter explicitly.
package catalog

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Catalog file names inside a catalog directory.
const (
	DofFile      = "DOF.xml"
	SwitchFile   = "switch.xml"
	ScriptFile   = "script.xml"
	CallbackFile = "callbacks.xml"
)

const defaultCallbackGroup = "Uncategorized"

// NoScript is the script entry meaning "no script".
var NoScript = Script{Number: -1, Name: "None"}

type Dof struct {
	Number int    `xml:"DOFNum" yaml:"number"`
	Name   string `xml:"Name" yaml:"name"`
}

type Switch struct {
	Number  int    `xml:"SwitchNum" yaml:"number"`
	Branch  int    `xml:"BranchNum" yaml:"branch"`
	Name    string `xml:"Name" yaml:"name"`
	Comment string `xml:"Comment" yaml:"comment"`
}

type Script struct {
	Number int    `xml:"ScriptNum" yaml:"number"`
	Name   string `xml:"Name" yaml:"name"`
}

type Callback struct {
	Name  string `xml:"Name" yaml:"name"`
	Group string `xml:"Group" yaml:"group"`
}

type Catalog struct {
	Dofs      []Dof      `yaml:"dofs"`
	Switches  []Switch   `yaml:"switches"`
	Scripts   []Script   `yaml:"scripts"`
	Callbacks []Callback `yaml:"callbacks"`
}

// Empty returns a catalog without entries except NoScript.
func Empty() *Catalog {
	return &Catalog{Scripts: []Script{NoScript}}
}

// Load reads the catalog files from dir. Missing files yield empty tables.
func Load(dir string) (*Catalog, error) {
	c := Empty()

	if err := loadFile(filepath.Join(dir, DofFile), &c.Dofs); err != nil {
		return nil, err
	}

	if err := loadFile(filepath.Join(dir, SwitchFile), &c.Switches); err != nil {
		return nil, err
	}

	var scripts []Script
	if err := loadFile(filepath.Join(dir, ScriptFile), &scripts); err != nil {
		return nil, err
	}

	c.Scripts = append(c.Scripts, scripts...)

	if err := loadFile(filepath.Join(dir, CallbackFile), &c.Callbacks); err != nil {
		return nil, err
	}

	c.normalize()

	return c, nil
}

func loadFile[T any](path string, out *[]T) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "failed to open catalog file %q", path)
	}

	defer f.Close()

	entries, err := decode[T](f)
	if err != nil {
		return errors.Wrapf(err, "failed to parse catalog file %q", path)
	}

	*out = entries

	return nil
}

// decode reads the children of the document's root element.
func decode[T any](r io.Reader) ([]T, error) {
	var doc struct {
		Entries []T `xml:",any"`
	}

	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	return doc.Entries, nil
}

// normalize trims whitespace and drops callbacks without a name.
func (c *Catalog) normalize() {
	for i := range c.Dofs {
		c.Dofs[i].Name = strings.TrimSpace(c.Dofs[i].Name)
	}

	for i := range c.Switches {
		c.Switches[i].Name = strings.TrimSpace(c.Switches[i].Name)
		c.Switches[i].Comment = strings.TrimSpace(c.Switches[i].Comment)
	}

	callbacks := c.Callbacks[:0]

	for _, cb := range c.Callbacks {
		cb.Name = strings.TrimSpace(cb.Name)
		if cb.Name == "" {
			continue
		}

		if cb.Group = strings.TrimSpace(cb.Group); cb.Group == "" {
			cb.Group = defaultCallbackGroup
		}

		callbacks = append(callbacks, cb)
	}

	c.Callbacks = callbacks
}

// Merge returns a catalog with the entries of both c and other, c first.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	if other == nil {
		return c
	}

	merged := &Catalog{
		Dofs:      append(append([]Dof(nil), c.Dofs...), other.Dofs...),
		Switches:  append(append([]Switch(nil), c.Switches...), other.Switches...),
		Scripts:   append([]Script(nil), c.Scripts...),
		Callbacks: append(append([]Callback(nil), c.Callbacks...), other.Callbacks...),
	}

	for _, s := range other.Scripts {
		if s != NoScript {
			merged.Scripts = append(merged.Scripts, s)
		}
	}

	merged.normalize()

	return merged
}

// DofByName looks up a DOF by its name.
func (c *Catalog) DofByName(name string) (Dof, bool) {
	for _, d := range c.Dofs {
		if d.Name == name {
			return d, true
		}
	}

	return Dof{}, false
}

// SwitchByName looks up a switch by its name.
func (c *Catalog) SwitchByName(name string) (Switch, bool) {
	for _, s := range c.Switches {
		if s.Name == name {
			return s, true
		}
	}

	return Switch{}, false
}

// ScriptNumber resolves a script given by number or by name. "-1" and
// "None" select no script.
func (c *Catalog) ScriptNumber(script string) (int, error) {
	script = strings.TrimSpace(script)

	if n, err := strconv.Atoi(script); err == nil {
		return n, nil
	}

	for _, s := range c.Scripts {
		if s.Name == script {
			return s.Number, nil
		}
	}

	return 0, errors.Errorf("unknown script %q", script)
}

// HasCallback reports whether name is a known callback.
func (c *Catalog) HasCallback(name string) bool {
	for _, cb := range c.Callbacks {
		if cb.Name == name {
			return true
		}
	}

	return false
}
