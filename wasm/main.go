//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("LineposParse", js.FuncOf(parse))
	js.Global().Set("LineposPosition", js.FuncOf(position))
	js.Global().Set("LineposPositions", js.FuncOf(positions))
	js.Global().Set("LineposNumLines", js.FuncOf(numLines))
	js.Global().Set("LineposFree", js.FuncOf(free))

	// Keep WASM running
	<-make(chan struct{})
}
