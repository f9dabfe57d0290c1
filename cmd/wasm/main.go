//go:build js && wasm

package main

import (
	"encoding/json"
	"strings"
	"syscall/js"
	"time"

	"github.com/timeglimpse/timeglimpse/internal/document"
	"github.com/timeglimpse/timeglimpse/internal/engine"
)

var (
	model    *document.Model
	eng      *engine.Engine
	onRedraw js.Value
)

func main() {
	api := js.Global().Get("Object").New()

	// --- Commands (frontend → wasm) ---
	api.Set("loadModel", js.FuncOf(loadModel))
	api.Set("loadSampleModel", js.FuncOf(loadSampleModel))
	api.Set("setRow", js.FuncOf(setRow))
	api.Set("setView", js.FuncOf(setView))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerExit", js.FuncOf(pointerExit))
	api.Set("onRedraw", js.FuncOf(setRedrawCallback))

	// --- Queries (frontend ← wasm) ---
	api.Set("render", js.FuncOf(render))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getRowIds", js.FuncOf(getRowIDs))
	api.Set("needsRedraw", js.FuncOf(needsRedraw))

	js.Global().Set("timeglimpse", api)
	js.Global().Set("timeglimpseWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// attach binds a fresh engine to rowID, replacing the current one.
func attach(rowID string) {
	view := engine.View{}
	if eng != nil {
		view = eng.View()
		eng.Close()
	}
	eng = engine.NewEngine(model, rowID, engine.DefaultOptions())
	eng.SetRedrawFunc(func() {
		if onRedraw.Type() == js.TypeFunction {
			onRedraw.Invoke()
		}
	})
	eng.SetView(view)
}

// --- Command Handlers ---

// loadModel(json, rowId?) replaces the model and attaches to rowId, or to
// the first row.
func loadModel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing model JSON"})
	}

	m, err := document.Decode(strings.NewReader(args[0].String()))
	if err != nil {
		return errorResult(err)
	}
	model = m

	rowID := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		rowID = args[1].String()
	} else if ids := model.RowIDs(); len(ids) > 0 {
		rowID = ids[0]
	}
	attach(rowID)
	return okResult()
}

func loadSampleModel(this js.Value, args []js.Value) interface{} {
	start := float64(time.Now().Add(-time.Hour).UnixMilli())
	var rowID string
	model, rowID = document.NewSampleModel(start, float64(time.Minute.Milliseconds()))
	attach(rowID)
	return js.ValueOf(map[string]interface{}{"ok": true, "rowId": rowID})
}

func setRow(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || model == nil {
		return nil
	}
	attach(args[0].String())
	return nil
}

func setView(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || eng == nil {
		return nil
	}
	var v engine.View
	if err := json.Unmarshal([]byte(args[0].String()), &v); err != nil {
		return errorResult(err)
	}
	eng.SetView(v)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || eng == nil {
		return js.ValueOf("null")
	}
	eng.PointerMove(args[0].Float(), args[1].Float())
	return getSelection(this, nil)
}

func pointerExit(this js.Value, args []js.Value) interface{} {
	if eng != nil {
		eng.PointerExit()
	}
	return nil
}

func setRedrawCallback(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		onRedraw = js.Undefined()
		return nil
	}
	onRedraw = args[0]
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf(`{"transform":[1,0,0,1,0,0],"commands":[]}`)
	}
	data, err := json.Marshal(eng.Frame())
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("null")
	}
	sel, ok := eng.Selection()
	if !ok {
		return js.ValueOf("null")
	}
	data, _ := json.Marshal(sel)
	return js.ValueOf(string(data))
}

func getRowIDs(this js.Value, args []js.Value) interface{} {
	if model == nil {
		return js.ValueOf("[]")
	}
	data, _ := json.Marshal(model.RowIDs())
	return js.ValueOf(string(data))
}

func needsRedraw(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng != nil && eng.RedrawPending())
}
