// Package cities loads the reference list of cities market rates may be
// entered for.
package cities

import (
	"encoding/json"
	"fmt"
	"os"
)

type City struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// List is the loaded city set with constant-time name lookup.
type List struct {
	all    []City
	byName map[string]City
}

// Load reads a JSON file of the form {"cities":[{id,name,region}]}. A missing
// file falls back to the builtin defaults so a bare deployment still works;
// a present but unparsable file is an error.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("read cities file: %w", err)
	}
	var body struct {
		Cities []City `json:"cities"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parse cities file: %w", err)
	}
	if len(body.Cities) == 0 {
		return nil, fmt.Errorf("cities file %s lists no cities", path)
	}
	return newList(body.Cities), nil
}

// Defaults returns the builtin city list.
func Defaults() *List {
	return newList([]City{
		{ID: 1, Name: "Душанбе", Region: "Душанбе"},
		{ID: 2, Name: "Худжанд", Region: "Согдийская область"},
		{ID: 3, Name: "Истаравшан", Region: "Согдийская область"},
	})
}

func newList(cs []City) *List {
	l := &List{all: cs, byName: make(map[string]City, len(cs))}
	for _, c := range cs {
		l.byName[c.Name] = c
	}
	return l
}

func (l *List) Has(name string) bool {
	_, ok := l.byName[name]
	return ok
}

func (l *List) All() []City {
	out := make([]City, len(l.all))
	copy(out, l.all)
	return out
}

func (l *List) Names() []string {
	names := make([]string, 0, len(l.all))
	for _, c := range l.all {
		names = append(names, c.Name)
	}
	return names
}
