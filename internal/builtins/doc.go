/*
Package builtins provides the native classes of the hello-world plugin and
the manifest that arranges them:

	plugin              Plugin: greet([name]), echo(v), raise(v), version, lastError
	plugin.object       Object: toString(), base of the root and every namespace
	plugin.utils        Utils: upper(s), wide(s), wideUnits(s), join(array[, sep])
	plugin.arrays       Arrays: range(n), sum(array), at(array, i)
	plugin.counter      CounterFactory: construct(plugin.counter[, start])

Constructed counters are objects of their own with a value property and
increment([by]).
*/
package builtins
