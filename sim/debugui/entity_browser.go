package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cutlass/sim"
)

type EntityInfo struct {
	ID       sim.EntityId
	Mesh     sim.MeshRef
	Material sim.MaterialRef
	Position mgl32.Vec3
	Behavior string
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(snapshot *sim.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Rebuild(snapshot)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filteredEntities := eb.Filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Mesh")
		imgui.TableSetupColumn("Material")
		imgui.TableSetupColumn("Position")
		imgui.TableSetupColumn("Behavior")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			filteredEntities = eb.Filtered()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx, endIdx := eb.pageBounds(len(filteredEntities))
		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(string(entity.Mesh))

			imgui.TableNextColumn()
			imgui.Text(string(entity.Material))

			imgui.TableNextColumn()
			imgui.Text(formatVec3(entity.Position))

			imgui.TableNextColumn()
			imgui.Text(entity.Behavior)
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := eb.pageCount(len(filteredEntities))
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Rebuild refreshes the row cache from snapshot. Snapshots are fresh every
// frame, so the cache is rebuilt on every render.
func (eb *EntityBrowser) Rebuild(snapshot *sim.World) {
	eb.cache.entities = eb.cache.entities[:0]

	for id, e := range snapshot.Entities() {
		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			ID:       id,
			Mesh:     e.Mesh,
			Material: e.Material,
			Position: e.Position,
			Behavior: behaviorName(e.Behavior),
		})
	}

	eb.sortEntities()

	if pages := eb.pageCount(len(eb.Filtered())); eb.currentPage >= pages {
		eb.currentPage = max(pages-1, 0)
	}
}

// SortBy sets the sort column (0 id, 1 mesh, 2 material, 3 position x,
// 4 behavior) and direction.
func (eb *EntityBrowser) SortBy(column int, ascending bool) {
	eb.cache.sortColumn = column
	eb.cache.sortAscending = ascending
	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Mesh < b.Mesh
		case 2:
			less = a.Material < b.Material
		case 3:
			less = a.Position.X() < b.Position.X()
		case 4:
			less = a.Behavior < b.Behavior
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

// SetFilter sets the case-insensitive search text.
func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
}

// Filtered returns the cached rows that match the search text by id, mesh,
// material or behavior.
func (eb *EntityBrowser) Filtered() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		haystack := strings.ToLower(string(entity.Mesh) + " " + string(entity.Material) + " " + entity.Behavior)

		if !strings.Contains(idStr, filterLower) && !strings.Contains(haystack, filterLower) {
			continue
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowser) pageCount(n int) int {
	if eb.maxEntitiesPerPage <= 0 {
		return 1
	}
	return (n + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
}

func (eb *EntityBrowser) pageBounds(n int) (int, int) {
	if eb.maxEntitiesPerPage <= 0 {
		return 0, n
	}
	start := min(eb.currentPage*eb.maxEntitiesPerPage, n)
	end := min(start+eb.maxEntitiesPerPage, n)
	return start, end
}

// Select marks id as the selected entity.
func (eb *EntityBrowser) Select(id sim.EntityId) {
	eb.selectedEntityId = id
}

func (eb *EntityBrowser) Selected() sim.EntityId {
	return eb.selectedEntityId
}

func behaviorName(b sim.Behavior) string {
	if b == nil {
		return ""
	}
	name := fmt.Sprintf("%T", b)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

func formatVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X(), v.Y(), v.Z())
}
