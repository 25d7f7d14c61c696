/*
Package host defines the contract between the bridge and a scripting host.

# Overview

A scripting host (a browser, an embedded JavaScript engine, a test double)
talks to native code through two narrow surfaces:

  - Upstream, the host invokes the generic scriptable-object operation set
    (Scriptable): has-method, has-property, get-property, set-property,
    list-property-names, call and construct. Every operation carries an
    exception slot the callee may fill.
  - Downstream, native code asks the host for services through a Context:
    identifier interning, property primitives on host objects, the global
    (window) object, expression evaluation, host-owned memory and variant
    release.

# Values

Values crossing the boundary are Variants, a tagged union of void, null,
bool, int32, double, string and object. String payloads are UTF-8. Object
variants own exactly one reference to the object they carry.

# Ownership

Objects are reference counted. A function that hands an object to its
caller returns an Owned reference; the receiver must eventually call
Release on it (or move it into a Variant that is later released through
Context.ReleaseVariant).

# Threading

Nothing in this package synchronizes. A Context and every object reachable
from it are used from the host's calling thread only.
*/
package host
