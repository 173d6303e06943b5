package recipe

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/craftwise/pkg/errors"
)

// Format identifies a recipe document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Parse decodes a recipe document in the given format.
func Parse(data []byte, format Format) ([]Recipe, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatTOML:
		return ParseTOML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported recipe format %q", format)
	}
}

// ParseJSON decodes a JSON object mapping item name to an object mapping
// ingredient name to a positive integer quantity:
//
//	{"Torch": {"Stick": 1, "Coal": 1}, "Stick": {"Plank": 2}}
//
// Key order in the document is preserved for both outputs and ingredients.
func ParseJSON(data []byte) ([]Recipe, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "recipe document is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "recipe document must be a JSON object")
	}

	var (
		recipes []Recipe
		err     error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		var r Recipe
		if r, err = parseJSONRecipe(key.String(), value); err != nil {
			return false
		}
		recipes = append(recipes, r)
		return true
	})
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func parseJSONRecipe(output string, value gjson.Result) (Recipe, error) {
	if err := errors.ValidateItemName(output); err != nil {
		return Recipe{}, err
	}
	if !value.IsObject() {
		return Recipe{}, errors.New(errors.ErrCodeInvalidRecipe, "recipe for %q must be an object", output)
	}

	r := Recipe{Output: output}
	seen := make(map[string]bool)
	var err error
	value.ForEach(func(key, qty gjson.Result) bool {
		name := key.String()
		if seen[name] {
			err = errors.New(errors.ErrCodeInvalidRecipe, "recipe %q lists %q more than once", output, name)
			return false
		}
		seen[name] = true

		var n int
		if n, err = jsonQuantity(output, name, qty); err != nil {
			return false
		}
		r.Ingredients = append(r.Ingredients, Ingredient{Name: name, Qty: n})
		return true
	})
	return r, err
}

func jsonQuantity(output, ingredient string, v gjson.Result) (int, error) {
	if err := errors.ValidateItemName(ingredient); err != nil {
		return 0, err
	}
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) || v.Num <= 0 || v.Num > MaxIngredientQty {
		return 0, errors.New(errors.ErrCodeInvalidRecipe,
			"%q in recipe %q: quantity must be an integer from 1 to %d, got %s", ingredient, output, MaxIngredientQty, v.Raw)
	}
	return int(v.Num), nil
}

// ParseTOML decodes a TOML document with one table per output item:
//
//	[Torch]
//	Stick = 1
//	Coal = 1
//
//	["Iron Plate"]
//	"Iron Ore" = 2
//
// Declaration order is recovered from the decoder's key metadata.
func ParseTOML(data []byte) ([]Recipe, error) {
	var raw map[string]map[string]int64
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode toml recipes")
	}

	var (
		recipes []Recipe
		index   = make(map[string]int)
	)
	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			output := key[0]
			if err := errors.ValidateItemName(output); err != nil {
				return nil, err
			}
			index[output] = len(recipes)
			recipes = append(recipes, Recipe{Output: output})
		case 2:
			output, ingredient := key[0], key[1]
			i, ok := index[output]
			if !ok {
				i = len(recipes)
				index[output] = i
				recipes = append(recipes, Recipe{Output: output})
			}
			if err := errors.ValidateItemName(ingredient); err != nil {
				return nil, err
			}
			qty := raw[output][ingredient]
			if qty <= 0 || qty > MaxIngredientQty {
				return nil, errors.New(errors.ErrCodeInvalidRecipe,
					"%q in recipe %q: quantity must be an integer from 1 to %d, got %d", ingredient, output, MaxIngredientQty, qty)
			}
			recipes[i].Ingredients = append(recipes[i].Ingredients, Ingredient{Name: ingredient, Qty: int(qty)})
		default:
			return nil, errors.New(errors.ErrCodeInvalidRecipe, "unexpected nested key %s", strings.Join(key, "."))
		}
	}
	return recipes, nil
}

// String renders a recipe as "Output = 2×A + 1×B".
func (r Recipe) String() string {
	parts := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		parts[i] = fmt.Sprintf("%d×%s", ing.Qty, ing.Name)
	}
	return r.Output + " = " + strings.Join(parts, " + ")
}
