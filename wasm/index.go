//go:build wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/linepos/pkg/lineindex"
)

var (
	indexes   = make(map[int]*lineindex.Index)
	indexesMu sync.RWMutex
	nextID    int
)

// lookup returns the index registered under the handle in args[0].
func lookup(args []js.Value) (*lineindex.Index, bool) {
	handle := args[0].Int()

	indexesMu.RLock()
	idx, ok := indexes[handle]
	indexesMu.RUnlock()

	return idx, ok
}

// parse indexes a text.
// JS: LineposParse(text) -> {handle, numLines, ending}
func parse(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "text argument required"}
	}

	// JS strings are UTF-16; offsets refer to the UTF-8 bytes of the text.
	idx := lineindex.Parse(args[0].String())

	indexesMu.Lock()
	id := nextID
	nextID++
	indexes[id] = idx
	indexesMu.Unlock()

	return map[string]interface{}{
		"handle":   id,
		"numLines": idx.NumLines(),
		"ending":   idx.Ending().String(),
	}
}

// position resolves one byte offset.
// JS: LineposPosition(handle, offset) -> {line, column} or {error}
func position(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and offset arguments required"}
	}

	idx, ok := lookup(args)
	if !ok {
		return map[string]interface{}{"error": "invalid index handle"}
	}

	pos, err := idx.Position(args[1].Int())
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	return map[string]interface{}{"line": pos.Line, "column": pos.Column}
}

// positions resolves many offsets at once.
// JS: LineposPositions(handle, offsetsJSON) -> JSON array of results or error
func positions(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and offsetsJSON arguments required"}
	}

	idx, ok := lookup(args)
	if !ok {
		return map[string]interface{}{"error": "invalid index handle"}
	}

	var offsets []int
	if err := json.Unmarshal([]byte(args[1].String()), &offsets); err != nil {
		return map[string]interface{}{"error": "failed to parse offsets JSON: " + err.Error()}
	}

	results := idx.Positions(offsets)

	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal results: " + err.Error()}
	}

	return string(jsonBytes)
}

// numLines reports the line count of an index.
// JS: LineposNumLines(handle) -> number or error
func numLines(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	idx, ok := lookup(args)
	if !ok {
		return map[string]interface{}{"error": "invalid index handle"}
	}

	return idx.NumLines()
}

// free releases an index.
// JS: LineposFree(handle) -> {success: true} or error
func free(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	indexesMu.Lock()
	_, ok := indexes[handle]
	delete(indexes, handle)
	indexesMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid index handle"}
	}

	return map[string]interface{}{"success": true}
}
