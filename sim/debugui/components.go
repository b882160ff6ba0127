package debugui

import (
	"reflect"

	"github.com/plus3/cutlass/sim"
)

type EntityBrowser struct {
	cache              *EntityBrowserCache
	selectedEntityId   sim.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type Inspector struct {
	selectedEntityId sim.EntityId
	layouts          map[reflect.Type][]Field
}

type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}
