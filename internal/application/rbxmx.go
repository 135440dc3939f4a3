package application

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

const rbxmxHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<roblox version=\"4\">\n"

// xmlEscaper replaces the five XML special characters. A Replacer makes a
// single pass, so an escaped "&" is never escaped again.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// SceneSerializer converts scene JSON into an rbxmx document.
type SceneSerializer struct {
	lenient     bool
	newReferent func() string
}

// NewSceneSerializer creates a SceneSerializer. With lenient set, unknown
// property type discriminators are rendered as string properties instead of
// failing the export.
func NewSceneSerializer(lenient bool) *SceneSerializer {
	return &SceneSerializer{lenient: lenient, newReferent: randomReferent}
}

// Serialize parses data and renders it. Nothing is rendered unless the whole
// document parses.
func (s *SceneSerializer) Serialize(data []byte) (string, error) {
	scene, err := ParseScene(data, s.lenient)
	if err != nil {
		return "", err
	}
	return s.Render(scene), nil
}

// Render writes scene as an rbxmx document. Every Item gets a fresh referent.
func (s *SceneSerializer) Render(scene model.Scene) string {
	var b strings.Builder
	b.WriteString(rbxmxHeader)
	for _, node := range scene.Objects {
		s.writeNode(&b, node, 1)
	}
	b.WriteString("</roblox>")
	return b.String()
}

func (s *SceneSerializer) writeNode(b *strings.Builder, node model.SceneNode, depth int) {
	indent := strings.Repeat("  ", depth)

	b.WriteString(indent)
	b.WriteString(`<Item class="`)
	b.WriteString(EscapeXML(node.ClassName))
	b.WriteString(`" referent="RBX`)
	b.WriteString(s.newReferent())
	b.WriteString("\">\n")

	b.WriteString(indent)
	b.WriteString("  <Properties>\n")
	writeProperty(b, "Name", model.ScalarValue(node.Name), depth+2)
	for _, prop := range node.Properties {
		writeProperty(b, prop.Name, prop.Value, depth+2)
	}
	b.WriteString(indent)
	b.WriteString("  </Properties>\n")

	for _, child := range node.Children {
		s.writeNode(b, child, depth+1)
	}

	b.WriteString(indent)
	b.WriteString("</Item>\n")
}

func writeProperty(b *strings.Builder, name string, v model.Value, depth int) {
	indent := strings.Repeat("  ", depth)
	name = EscapeXML(name)

	switch v.Kind {
	case model.KindVector3:
		openTag(b, indent, "Vector3", name)
		writeLine(b, indent, field("X", v.Vector3.X))
		writeLine(b, indent, field("Y", v.Vector3.Y))
		writeLine(b, indent, field("Z", v.Vector3.Z))
		closeTag(b, indent, "Vector3")

	case model.KindCFrame:
		c := v.CFrame
		openTag(b, indent, "CoordinateFrame", name)
		writeLine(b, indent, field("X", c[0])+field("Y", c[1])+field("Z", c[2]))
		writeLine(b, indent, field("R00", c[3])+field("R01", c[4])+field("R02", c[5]))
		writeLine(b, indent, field("R10", c[6])+field("R11", c[7])+field("R12", c[8]))
		writeLine(b, indent, field("R20", c[9])+field("R21", c[10])+field("R22", c[11]))
		closeTag(b, indent, "CoordinateFrame")

	case model.KindColor3:
		openTag(b, indent, "Color3", name)
		writeLine(b, indent, field("R", v.Color3.R))
		writeLine(b, indent, field("G", v.Color3.G))
		writeLine(b, indent, field("B", v.Color3.B))
		closeTag(b, indent, "Color3")

	default:
		b.WriteString(indent)
		b.WriteString(`<string name="`)
		b.WriteString(name)
		b.WriteString(`">`)
		b.WriteString(EscapeXML(v.Scalar))
		b.WriteString("</string>\n")
	}
}

func openTag(b *strings.Builder, indent, tag, name string) {
	b.WriteString(indent)
	b.WriteString("<" + tag + ` name="` + name + "\">\n")
}

func closeTag(b *strings.Builder, indent, tag string) {
	b.WriteString(indent)
	b.WriteString("</" + tag + ">\n")
}

// writeLine writes content one level deeper than indent.
func writeLine(b *strings.Builder, indent, content string) {
	b.WriteString(indent)
	b.WriteString("  ")
	b.WriteString(content)
	b.WriteByte('\n')
}

func field(tag string, n float64) string {
	return "<" + tag + ">" + formatNumber(n) + "</" + tag + ">"
}

// randomReferent returns 128 random bits as 32 hex characters.
func randomReferent() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
