//go:build js && wasm

// cardgen WASM - Client-side card renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o cardgen.wasm ./clients/wasm/
package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/template"
)

// In-memory template store; the browser has no filesystem.
var (
	templateMu   sync.RWMutex
	templateData []byte
)

var engine *template.FaceEngine

func main() {
	fm, err := template.NewFontManager("", "")
	if err != nil {
		fmt.Println("cardgen WASM: fonts:", err)
		return
	}
	engine = template.NewFaceEngine(fm)
	fmt.Println("cardgen WASM loaded")

	js.Global().Set("goSetTemplate", js.FuncOf(setTemplate))
	js.Global().Set("goRenderCard", js.FuncOf(renderCard))
	js.Global().Set("goVariants", js.FuncOf(listVariants))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// goSetTemplate(base64Data) - store the background template in Go memory.
func setTemplate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}
	if _, err := template.DecodeTemplate(bytes.NewReader(data)); err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	templateMu.Lock()
	templateData = data
	templateMu.Unlock()
	return js.ValueOf("ok")
}

// goRenderCard(headline, body, variant, format) - render and return base64 image.
// variant and format are optional.
func renderCard(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need headline, body")
	}
	headline, body := args[0].String(), args[1].String()

	name := template.DefaultVariant
	if len(args) > 2 && args[2].Type() == js.TypeString && args[2].String() != "" {
		name = args[2].String()
	}
	variant, ok := template.LookupVariant(name)
	if !ok {
		return js.ValueOf("error: unknown variant " + name)
	}
	format := generator.FormatPNG
	if len(args) > 3 && args[3].Type() == js.TypeString {
		format = generator.NormalizeFormat(args[3].String())
	}

	templateMu.RLock()
	data := templateData
	templateMu.RUnlock()
	if data == nil {
		return js.ValueOf("error: no template set")
	}

	tmpl, err := template.DecodeTemplate(bytes.NewReader(data))
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	img, _, err := template.Compose(tmpl, headline, body, variant, engine)
	if err != nil {
		return js.ValueOf("error: render: " + err.Error())
	}

	var buf bytes.Buffer
	if err := generator.Encode(&buf, img, format); err != nil {
		return js.ValueOf("error: encode: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goVariants() - text listing of the built-in variants.
func listVariants(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(template.FormatVariants(template.Variants))
}
