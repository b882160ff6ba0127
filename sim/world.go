package sim

import (
	"encoding/binary"
	"iter"
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// World is one snapshot of the simulation. It owns its entities and its
// player; Clone and CopyFrom copy them deeply.
type World struct {
	CursorPos   mgl32.Vec2
	CursorDelta mgl32.Vec2
	ScrollDelta mgl32.Vec2

	Actions    Action
	OldActions Action

	Player Player

	entities *orderedmap.OrderedMap[EntityId, *Entity]
	lastId   EntityId
}

// NewWorld creates an empty world with a default player.
func NewWorld() *World {
	return &World{
		Player:   NewPlayer(),
		entities: orderedmap.NewOrderedMap[EntityId, *Entity](),
	}
}

// Insert stores a copy of e under the next id and returns that id.
func (w *World) Insert(e Entity) EntityId {
	w.lastId++
	id := w.lastId
	w.entities.Set(id, e.clone())
	return id
}

// Remove deletes the entity with the given id.
func (w *World) Remove(id EntityId) bool {
	return w.entities.Delete(id)
}

// Entity returns a pointer to the live entity, or nil.
func (w *World) Entity(id EntityId) *Entity {
	e, ok := w.entities.Get(id)
	if !ok {
		return nil
	}
	return e
}

// Has reports whether an entity with the given id exists.
func (w *World) Has(id EntityId) bool {
	_, ok := w.entities.Get(id)
	return ok
}

// Len returns the number of entities.
func (w *World) Len() int {
	return w.entities.Len()
}

// LastId returns the most recently assigned id, or 0.
func (w *World) LastId() EntityId {
	return w.lastId
}

// Entities iterates over entities in insertion order.
func (w *World) Entities() iter.Seq2[EntityId, *Entity] {
	return func(yield func(EntityId, *Entity) bool) {
		for el := w.entities.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

// JustPressed reports whether a became active on the latest poll.
func (w *World) JustPressed(a Action) bool {
	return w.Actions.Pressed(w.OldActions).Has(a)
}

// JustReleased reports whether a became inactive on the latest poll.
func (w *World) JustReleased(a Action) bool {
	return w.Actions.Released(w.OldActions).Has(a)
}

// Clone returns a deep copy of w.
func (w *World) Clone() *World {
	c := &World{entities: orderedmap.NewOrderedMap[EntityId, *Entity]()}
	c.CopyFrom(w)
	return c
}

// CopyFrom overwrites w with a deep copy of src.
func (w *World) CopyFrom(src *World) {
	if w == src {
		return
	}

	entities := orderedmap.NewOrderedMap[EntityId, *Entity]()
	for el := src.entities.Front(); el != nil; el = el.Next() {
		entities.Set(el.Key, el.Value.clone())
	}

	*w = *src
	w.entities = entities
}

// Checksum returns a digest of the simulated state: entities in order,
// the player, its camera and the action sets. Cursor fields are ignored.
func (w *World) Checksum() uint64 {
	h := xxh3.New()
	buf := make([]byte, 0, 64)

	putVec := func(v mgl32.Vec3) {
		for _, f := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	putFloat := func(f float32) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	flush := func() {
		_, _ = h.Write(buf)
		buf = buf[:0]
	}

	for id, e := range w.Entities() {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id))
		putVec(e.Position)
		putVec(e.Rotation)
		putVec(e.Scale)
		buf = append(buf, e.Mesh...)
		buf = append(buf, e.Material...)
		flush()
	}

	p := w.Player
	putVec(p.Position)
	putFloat(p.Rotation)
	putVec(p.Camera.Position)
	putVec(p.Camera.Rotation)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(w.Actions))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(w.OldActions))
	flush()

	return h.Sum64()
}
