/*
Package gojahost runs bridge objects inside a goja JavaScript VM.

# Overview

Runtime implements host.Context on top of goja: identifiers, property
access on script objects and on bridge proxies, the global object as the
window, RunString as evaluation and a byte budget for host-allocated
strings.

Bridge proxies reach scripts as goja dynamic objects. Reading a method
name yields a function; everything else is a property read. Exceptions
raised by the bridge are thrown as TypeErrors (or as the raised value
when it is not a string). Dynamic objects cannot be called with new, so
constructors are reached with the global construct(target, ...args).

# Ownership

Every proxy exposed to a script is retained by the runtime and released
on Reset or Close. Strings handed to native code are copied into
MemAlloc buffers and freed by ReleaseVariant.

# Usage

	rt, _ := gojahost.New(gojahost.DefaultConfig())
	defer rt.Close()

	inst, _ := plugin.NewInstance(rt)
	rt.Bind("plugin", inst.ScriptableObject())
	result, err := rt.Execute(ctx, "plugin.greet()")
*/
package gojahost
