package main

import (
	"encoding/json"
	"errors"
	"html/template"
	"reflect"
	"strings"
)

// Errors surfaced by the contains helper. The messages end up in the 500
// response, so they are written for a template author.
var (
	ErrNoArray  = errors.New("No array given")
	ErrNoNeedle = errors.New("No needle given")
	ErrNotArray = errors.New("First param should be an array")

	errTooManyParams = errors.New("contains takes exactly two params")
)

// templateFuncs returns the helpers every template can call.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"contains":      contains,
		"industries":    func() []string { return knownIndustries },
		"profilePicSrc": profilePicSrc,
	}
}

// contains reports whether array (param 0) holds needle (param 1). Templates
// use it to pick a branch:
//
//	{{if contains .CheckedIndustries "tech"}}checked{{else}}...{{end}}
//
// Equality is structural with JSON value semantics, so 1 and 1.0 are equal
// and maps and slices are compared element by element.
func contains(params ...any) (bool, error) {
	if len(params) < 1 {
		return false, ErrNoArray
	}
	arr := reflect.ValueOf(params[0])
	if arr.Kind() != reflect.Slice && arr.Kind() != reflect.Array {
		return false, ErrNotArray
	}
	if len(params) < 2 {
		return false, ErrNoNeedle
	}
	if len(params) > 2 {
		return false, errTooManyParams
	}

	needle := normalizeValue(params[1])
	for i := 0; i < arr.Len(); i++ {
		if reflect.DeepEqual(normalizeValue(arr.Index(i).Interface()), needle) {
			return true, nil
		}
	}
	return false, nil
}

// normalizeValue maps v onto the JSON value space (nil, bool, float64,
// string, []any, map[string]any) so that values of different Go types but
// equal JSON representation compare equal. Values that have no JSON form are
// returned unchanged.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil, bool, float64, string:
		return t
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// profilePicSrc turns a stored picture into something usable as an img src.
// Pictures uploaded through the create form arrive as data URLs already; seed
// pictures are bare base64 PNGs.
func profilePicSrc(b64 string) template.URL {
	if strings.HasPrefix(b64, "data:image/") {
		return template.URL(b64)
	}
	return template.URL("data:image/png;base64," + b64)
}
