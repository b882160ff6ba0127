package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
)

var (
	vec3Type   = reflect.TypeOf(mgl32.Vec3{})
	playerType = reflect.TypeOf(sim.Player{})
	cameraType = reflect.TypeOf(sim.Camera{})
	entityType = reflect.TypeOf(sim.Entity{})
)

// Field is one exported field of a snapshot type.
type Field struct {
	Name  string
	Index int
	Vec3  bool
}

// NewInspector lays out the snapshot types once up front so rendering never
// walks struct definitions.
func NewInspector() *Inspector {
	in := &Inspector{layouts: make(map[reflect.Type][]Field)}
	for _, t := range []reflect.Type{playerType, cameraType, entityType} {
		in.layouts[t] = exportedFields(t)
	}
	return in
}

// Fields returns the layout of a snapshot type, or nil for any other type.
func (in *Inspector) Fields(t reflect.Type) []Field {
	return in.layouts[t]
}

func exportedFields(t reflect.Type) []Field {
	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fields = append(fields, Field{
			Name:  field.Name,
			Index: i,
			Vec3:  field.Type == vec3Type,
		})
	}
	return fields
}

// Render shows the player, its camera and the selected entity. Values are
// read from the snapshot and are not editable.
func (in *Inspector) Render(snapshot *sim.World, selectedEntityId sim.EntityId) {
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	in.selectedEntityId = selectedEntityId

	imgui.Text(fmt.Sprintf("Actions: %s", snapshot.Actions))
	imgui.Text(fmt.Sprintf("Cursor: (%.0f, %.0f) delta (%.1f, %.1f)",
		snapshot.CursorPos.X(), snapshot.CursorPos.Y(), snapshot.CursorDelta.X(), snapshot.CursorDelta.Y()))

	if imgui.TreeNodeStr("Player") {
		in.renderFields(reflect.ValueOf(snapshot.Player))
		imgui.TreePop()
	}

	imgui.Separator()

	if in.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity := snapshot.Entity(in.selectedEntityId)
	if entity == nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", in.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", in.selectedEntityId))
	in.renderFields(reflect.ValueOf(*entity))

	imgui.End()
}

func (in *Inspector) renderFields(val reflect.Value) {
	for _, field := range in.layouts[val.Type()] {
		fieldVal := val.Field(field.Index)
		if field.Vec3 {
			imgui.Text(fmt.Sprintf("%s: %s", field.Name, formatVec3(fieldVal.Interface().(mgl32.Vec3))))
			continue
		}
		in.renderValue(field.Name, fieldVal)
	}
}

func (in *Inspector) renderValue(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if val.Kind() == reflect.Interface {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}

	if val.Type() == vec3Type {
		imgui.Text(fmt.Sprintf("%s: %s", name, formatVec3(val.Interface().(mgl32.Vec3))))
		return
	}

	switch val.Kind() {
	case reflect.Float32, reflect.Float64:
		imgui.Text(fmt.Sprintf("%s: %.3f", name, val.Float()))

	case reflect.Struct:
		if _, ok := in.layouts[val.Type()]; !ok {
			// Behavior values are small and opaque.
			imgui.Text(fmt.Sprintf("%s: %s %+v", name, val.Type().Name(), val.Interface()))
			return
		}
		if imgui.TreeNodeStr(fmt.Sprintf("%s (%s)", name, val.Type().Name())) {
			in.renderFields(val)
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
