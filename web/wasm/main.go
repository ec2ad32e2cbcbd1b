//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/internal/lofi"
	"github.com/cwbudde/algo-lofi/internal/webdemo"
)

var (
	session *webdemo.Session
	onEvent js.Value
	funcs   []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 44100.0
		if len(args) > 0 && args[0].Type() == js.TypeNumber {
			sr = args[0].Float()
		}

		if session != nil {
			_ = session.Close()
		}

		log := logrus.New()
		log.SetLevel(logrus.WarnLevel)

		s, err := webdemo.NewSession(sr,
			lofi.WithLogger(log),
			lofi.WithTransportListener(func(ev lofi.TransportEvent) {
				if onEvent.Type() == js.TypeFunction {
					onEvent.Invoke(ev.String())
				}
			}),
		)
		if err != nil {
			return err.Error()
		}

		session = s

		return js.Null()
	}))

	api.Set("onTransport", export(func(args []js.Value) any {
		if len(args) > 0 {
			onEvent = args[0]
		}

		return js.Null()
	}))

	api.Set("load", export(func(args []js.Value) any {
		if session == nil || len(args) < 2 {
			return "not initialized"
		}

		data := make([]byte, args[1].Get("length").Int())
		js.CopyBytesToGo(data, args[1])

		if err := session.Load(args[0].String(), data); err != nil {
			return err.Error()
		}

		return js.Null()
	}))

	api.Set("applyParameters", export(func(args []js.Value) any {
		return applyParameters(args, false)
	}))

	api.Set("update", export(func(args []js.Value) any {
		return applyParameters(args, true)
	}))

	api.Set("play", export(func(args []js.Value) any {
		if session == nil {
			return "not initialized"
		}

		if err := session.Play(); err != nil {
			return err.Error()
		}

		return js.Null()
	}))

	api.Set("stop", export(func(args []js.Value) any {
		if session == nil {
			return js.Null()
		}

		if err := session.Stop(); err != nil {
			return err.Error()
		}

		return js.Null()
	}))

	api.Set("render", export(func(args []js.Value) any {
		if session == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}

		frames := args[0].Int()
		buf := make([]float32, 2*frames)
		session.Render(buf)

		arr := js.Global().Get("Float32Array").New(len(buf))
		for i := range buf {
			arr.SetIndex(i, buf[i])
		}

		return arr
	}))

	api.Set("spectrumCurve", export(func(args []js.Value) any {
		if session == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}

		input := args[0]
		freqs := make([]float64, input.Length())
		for i := range freqs {
			freqs[i] = input.Index(i).Float()
		}

		resp := session.SpectrumCurveDB(freqs)
		arr := js.Global().Get("Float32Array").New(len(resp))
		for i := range resp {
			arr.SetIndex(i, resp[i])
		}

		return arr
	}))

	api.Set("setSpectrum", export(func(args []js.Value) any {
		if session == nil || len(args) < 1 {
			return js.Null()
		}

		raw := js.Global().Get("JSON").Call("stringify", args[0]).String()
		if err := session.SetSpectrumJSON([]byte(raw)); err != nil {
			return err.Error()
		}

		return js.Null()
	}))

	api.Set("peaks", export(func(args []js.Value) any {
		if session == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}

		peaks := session.Peaks(args[0].Int())
		arr := js.Global().Get("Float32Array").New(len(peaks))
		for i := range peaks {
			arr.SetIndex(i, peaks[i])
		}

		return arr
	}))

	api.Set("state", export(func(args []js.Value) any {
		if session == nil {
			return js.Null()
		}

		return toJS(session.State())
	}))

	api.Set("export", export(func(args []js.Value) any {
		return exportPromise()
	}))

	api.Set("cancelExport", export(func(args []js.Value) any {
		if session != nil {
			session.CancelExport()
		}

		return js.Null()
	}))

	js.Global().Set("AlgoLofi", api)
	select {}
}

func applyParameters(args []js.Value, partial bool) any {
	if session == nil || len(args) < 1 {
		return "not initialized"
	}

	raw := js.Global().Get("JSON").Call("stringify", args[0]).String()

	tr, err := session.ApplyJSON([]byte(raw), partial)
	if err != nil {
		return err.Error()
	}

	return tr.String()
}

// exportPromise renders on a goroutine so the browser event loop keeps
// running, and settles with {name, type, data}.
func exportPromise() js.Value {
	var handler js.Func

	handler = js.FuncOf(func(_ js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]

		go func() {
			defer handler.Release()

			if session == nil {
				reject.Invoke("not initialized")
				return
			}

			f, err := session.Export(context.Background())
			if err != nil {
				reject.Invoke(err.Error())
				return
			}

			data := js.Global().Get("Uint8Array").New(len(f.Data))
			js.CopyBytesToJS(data, f.Data)

			result := js.Global().Get("Object").New()
			result.Set("name", f.Name)
			result.Set("type", f.ContentType)
			result.Set("data", data)
			resolve.Invoke(result)
		}()

		return nil
	})

	return js.Global().Get("Promise").New(handler)
}

func toJS(v webdemo.State) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("loaded", v.Loaded)
	obj.Set("playing", v.Playing)
	obj.Set("render", v.Render)
	obj.Set("transition", v.Transition)

	params := js.Global().Get("Object").New()
	for _, f := range lofi.Fields() {
		params.Set(f.Name, f.Get(v.Parameters))
	}

	obj.Set("parameters", params)

	topo := js.Global().Get("Array").New(len(v.Topology))
	for i, id := range v.Topology {
		topo.SetIndex(i, id)
	}

	obj.Set("topology", topo)

	if v.Source != nil {
		src := js.Global().Get("Object").New()
		src.Set("name", v.Source.Name)
		src.Set("sampleRate", v.Source.SampleRate)
		src.Set("channels", v.Source.Channels)
		src.Set("duration", v.Source.DurationSeconds)
		obj.Set("source", src)
	}

	return obj
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)

	return f
}
