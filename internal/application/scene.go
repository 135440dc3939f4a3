package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

// sceneDocument mirrors the JSON sent by the Studio plugin.
type sceneDocument struct {
	Objects []sceneNodeJSON `json:"objects"`
}

type sceneNodeJSON struct {
	ClassName  json.RawMessage   `json:"ClassName"`
	Name       json.RawMessage   `json:"Name"`
	Properties orderedProperties `json:"Properties"`
	Children   []sceneNodeJSON   `json:"Children"`
}

type rawProperty struct {
	name string
	raw  json.RawMessage
}

// orderedProperties decodes a JSON object while keeping key order, which a
// map would lose.
type orderedProperties []rawProperty

func (p *orderedProperties) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		*p = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("properties must be an object")
	}

	var props orderedProperties
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected property key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		props = append(props, rawProperty{name: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = props
	return nil
}

// ParseScene decodes a scene document. data may be the document object
// itself or a JSON string that contains it. When lenient is false an unknown
// "type" discriminator is an error; otherwise it falls back to a string
// property built from the object's "value" field.
func ParseScene(data []byte, lenient bool) (model.Scene, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return model.Scene{}, &model.ParseError{Err: errors.New("empty document")}
	}

	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return model.Scene{}, &model.ParseError{Err: err}
		}
		data = bytes.TrimSpace([]byte(inner))
	}
	if len(data) == 0 || data[0] != '{' {
		return model.Scene{}, &model.ParseError{Err: errors.New("document must be a JSON object")}
	}

	var doc sceneDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Scene{}, &model.ParseError{Err: err}
	}

	scene := model.Scene{Objects: make([]model.SceneNode, 0, len(doc.Objects))}
	for i, raw := range doc.Objects {
		node, err := convertNode(raw, lenient, fmt.Sprintf("objects[%d]", i))
		if err != nil {
			return model.Scene{}, &model.ParseError{Err: err}
		}
		scene.Objects = append(scene.Objects, node)
	}
	return scene, nil
}

func convertNode(raw sceneNodeJSON, lenient bool, path string) (model.SceneNode, error) {
	var className string
	if err := json.Unmarshal(raw.ClassName, &className); err != nil || className == "" {
		return model.SceneNode{}, fmt.Errorf("%s: ClassName must be a non-empty string", path)
	}

	node := model.SceneNode{
		ClassName:  className,
		Name:       scalarString(raw.Name),
		Properties: make([]model.Property, 0, len(raw.Properties)),
	}

	for _, prop := range raw.Properties {
		v, err := parseValue(prop.raw, lenient)
		if err != nil {
			return model.SceneNode{}, fmt.Errorf("%s.Properties.%s: %w", path, prop.name, err)
		}
		node.Properties = append(node.Properties, model.Property{Name: prop.name, Value: v})
	}

	for i, child := range raw.Children {
		c, err := convertNode(child, lenient, fmt.Sprintf("%s.Children[%d]", path, i))
		if err != nil {
			return model.SceneNode{}, err
		}
		node.Children = append(node.Children, c)
	}

	return node, nil
}

// parseValue maps one property value onto the closed set of kinds.
func parseValue(raw json.RawMessage, lenient bool) (model.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return model.ScalarValue(scalarString(raw)), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Value{}, err
	}

	typeRaw, hasType := fields["type"]
	if !hasType || isJSONNull(typeRaw) {
		return fallbackValue(fields), nil
	}

	var kind string
	if err := json.Unmarshal(typeRaw, &kind); err != nil {
		if lenient {
			return fallbackValue(fields), nil
		}
		return model.Value{}, errors.New("type must be a string")
	}

	switch kind {
	case "Vector3":
		x, y, z, err := threeNumbers(fields, "x", "y", "z")
		if err != nil {
			return model.Value{}, err
		}
		return model.Vector3Value(x, y, z), nil

	case "Color3":
		r, g, b, err := threeNumbers(fields, "r", "g", "b")
		if err != nil {
			return model.Value{}, err
		}
		return model.Color3Value(r, g, b), nil

	case "CFrame":
		components, err := cframeComponents(fields["components"])
		if err != nil {
			return model.Value{}, err
		}
		return model.CFrameValue(components), nil

	default:
		if lenient {
			return fallbackValue(fields), nil
		}
		return model.Value{}, fmt.Errorf("unknown type %q", kind)
	}
}

// fallbackValue renders an untyped object through its "value" field.
func fallbackValue(fields map[string]json.RawMessage) model.Value {
	v, ok := fields["value"]
	if !ok || isFalsy(v) {
		return model.ScalarValue("")
	}
	return model.ScalarValue(scalarString(v))
}

func threeNumbers(fields map[string]json.RawMessage, a, b, c string) (float64, float64, float64, error) {
	var out [3]float64
	for i, key := range []string{a, b, c} {
		n, err := numberField(fields[key])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("component %s: %w", key, err)
		}
		out[i] = n
	}
	return out[0], out[1], out[2], nil
}

// numberField decodes an optional numeric component; absent or null is 0.
func numberField(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || isJSONNull(raw) {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.New("must be a number")
	}
	return n, nil
}

// cframeComponents decodes the component list. Fewer than twelve components
// yield the identity frame; components past the twelfth are ignored.
func cframeComponents(raw json.RawMessage) ([12]float64, error) {
	if len(raw) == 0 || isJSONNull(raw) {
		return model.IdentityCFrame, nil
	}
	var list []float64
	if err := json.Unmarshal(raw, &list); err != nil {
		return [12]float64{}, errors.New("components must be an array of numbers")
	}
	if len(list) < 12 {
		return model.IdentityCFrame, nil
	}
	var out [12]float64
	copy(out[:], list[:12])
	return out, nil
}

// scalarString stringifies a primitive JSON value. Strings are unquoted,
// numbers use their shortest form, arrays and objects become "". An absent
// value is "".
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '[', '{':
		return ""
	case 't', 'f', 'n':
		return string(raw)
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return string(raw)
		}
		return formatNumber(f)
	}
}

func isFalsy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return f == 0 || math.IsNaN(f)
	}
	return false
}

func isJSONNull(raw []byte) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// formatNumber renders f in its shortest decimal form without exponent.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
