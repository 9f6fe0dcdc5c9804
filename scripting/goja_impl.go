package scripting

import (
	"context"
	"fmt"
	"sync"

	"github.com/dop251/goja"
)

// GojaEngine executes scripts on a goja runtime. A runtime is not safe for
// concurrent use, so calls are serialized; the per-page hook is cheap
// compared to the pixel work it parameterizes.
type GojaEngine struct {
	mu sync.Mutex
	vm *goja.Runtime
}

// NewEngine creates a fresh JavaScript runtime.
func NewEngine() *GojaEngine {
	return &GojaEngine{vm: goja.New()}
}

// Execute runs a script, interrupting it if the context is canceled.
func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run(ctx, func() (goja.Value, error) { return e.vm.RunString(script) })
}

func (e *GojaEngine) run(ctx context.Context, f func() (goja.Value, error)) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := f()
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	return val.Export(), nil
}

// ConfigHook evaluates a user script once and then calls its configFor
// function for each page.
type ConfigHook struct {
	eng *GojaEngine
	fn  goja.Callable
}

// NewConfigHook loads the script and binds its configFor function.
func NewConfigHook(ctx context.Context, script string) (*ConfigHook, error) {
	eng := NewEngine()
	if _, err := eng.Execute(ctx, script); err != nil {
		return nil, fmt.Errorf("scripting: load hook: %w", err)
	}
	eng.mu.Lock()
	defer eng.mu.Unlock()
	fn, ok := goja.AssertFunction(eng.vm.Get("configFor"))
	if !ok {
		return nil, fmt.Errorf("scripting: script does not define configFor(page)")
	}
	return &ConfigHook{eng: eng, fn: fn}, nil
}

// For returns the overrides for a 1-based page number.
func (h *ConfigHook) For(ctx context.Context, pageNumber int) (Overrides, error) {
	h.eng.mu.Lock()
	defer h.eng.mu.Unlock()
	val, err := h.eng.run(ctx, func() (goja.Value, error) {
		return h.fn(goja.Undefined(), h.eng.vm.ToValue(pageNumber))
	})
	if err != nil {
		return Overrides{}, fmt.Errorf("scripting: configFor(%d): %w", pageNumber, err)
	}
	return overridesFrom(val)
}

// overridesFrom maps the script's returned object onto Overrides. Unknown
// keys are rejected so typos do not silently change nothing.
func overridesFrom(val interface{}) (Overrides, error) {
	var o Overrides
	if val == nil {
		return o, nil
	}
	m, ok := val.(map[string]interface{})
	if !ok {
		return o, fmt.Errorf("scripting: configFor must return an object, got %T", val)
	}
	for key, raw := range m {
		switch key {
		case "smudge_probability":
			if err := setFloat(&o.SmudgeProbability, key, raw); err != nil {
				return o, err
			}
		case "scanline_probability":
			if err := setFloat(&o.ScanlineProbability, key, raw); err != nil {
				return o, err
			}
		case "curl_vertical":
			if err := setFloat(&o.CurlVertical, key, raw); err != nil {
				return o, err
			}
		case "curl_horizontal":
			if err := setFloat(&o.CurlHorizontal, key, raw); err != nil {
				return o, err
			}
		case "noise_sigma":
			if err := setFloat(&o.NoiseSigma, key, raw); err != nil {
				return o, err
			}
		case "max_rotation_deg":
			if err := setFloat(&o.MaxRotationDeg, key, raw); err != nil {
				return o, err
			}
		case "skip":
			b, ok := raw.(bool)
			if !ok {
				return o, fmt.Errorf("scripting: %s must be a boolean", key)
			}
			o.Skip = &b
		default:
			return o, fmt.Errorf("scripting: unknown override %q", key)
		}
	}
	return o, nil
}

func setFloat(dst **float64, key string, raw interface{}) error {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	default:
		return fmt.Errorf("scripting: %s must be a number, got %T", key, raw)
	}
	*dst = &f
	return nil
}
