package extract

import (
	"fmt"
	"path"
	"time"

	"github.com/dop251/goja"
)

// Configs are small local files; anything that runs longer than this is
// not a config.
const evalTimeout = 500 * time.Millisecond

// webpackStubJS builds an inert stand-in for the webpack module: every
// property access yields a constructable no-op so plugin instantiation in
// real configs does not throw.
const webpackStubJS = `(function () {
	function plugin() { return {}; }
	var cache = {};
	return new Proxy(plugin, {
		get: function (target, prop) {
			if (!(prop in cache)) { cache[prop] = plugin; }
			return cache[prop];
		}
	});
})()`

// readOutputPathJS pulls output.path out of whatever the config exported.
// Function-style exports are invoked once with production-shaped arguments.
const readOutputPathJS = `(function () {
	var m = module.exports;
	if (typeof m === 'function') {
		try { m = m({}, { mode: 'production' }); } catch (e) { return ''; }
	}
	if (m && typeof m === 'object' && m.output && typeof m.output.path === 'string') {
		return m.output.path;
	}
	return '';
})()`

// evalOutputPath runs a bundler config as a restricted CommonJS module and
// returns its exported output.path. The module sees __dirname, __filename,
// a stub process.env, and a require that serves exactly two permitted
// built-ins: a minimal "path" stand-in and an inert "webpack" stub. Any
// other require throws, and every failure mode (parse error, throw,
// refused module, timeout) comes back as an error the caller downgrades to
// "nothing found".
func evalOutputPath(name string, content []byte, dir string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = ""
			err = fmt.Errorf("evaluation panic: %v", r)
		}
	}()

	vm := goja.New()

	module := vm.NewObject()
	exports := vm.NewObject()
	module.Set("exports", exports)
	vm.Set("module", module)
	vm.Set("exports", exports)
	vm.Set("__dirname", dir)
	vm.Set("__filename", path.Join(dir, name))

	env := vm.NewObject()
	env.Set("NODE_ENV", "production")
	process := vm.NewObject()
	process.Set("env", env)
	vm.Set("process", process)

	vm.Set("require", func(call goja.FunctionCall) goja.Value {
		switch mod := call.Argument(0).String(); mod {
		case "path":
			return pathStandIn(vm)
		case "webpack":
			stub, err := vm.RunString(webpackStubJS)
			if err != nil {
				panic(vm.NewTypeError("webpack stub unavailable"))
			}
			return stub
		default:
			panic(vm.NewTypeError("require of %q is not permitted here", mod))
		}
	})

	timer := time.AfterFunc(evalTimeout, func() { vm.Interrupt("evaluation timed out") })
	defer timer.Stop()

	if _, err := vm.RunScript(name, string(content)); err != nil {
		return "", err
	}

	v, err := vm.RunString(readOutputPathJS)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// pathStandIn is the minimal permitted "path" module. resolve is the same
// as join: configs resolve from the absolute __dirname, where joining
// yields the identical absolute path.
func pathStandIn(vm *goja.Runtime) *goja.Object {
	join := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		return vm.ToValue(path.Join(parts...))
	}

	m := vm.NewObject()
	m.Set("join", join)
	m.Set("resolve", join)
	m.Set("dirname", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(path.Dir(call.Argument(0).String()))
	})
	m.Set("basename", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(path.Base(call.Argument(0).String()))
	})
	return m
}
