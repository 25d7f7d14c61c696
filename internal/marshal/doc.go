// Package marshal converts native data to and from host representations.
//
// It covers three concerns:
//   - Text: UTF-8 <-> native wide text (UTF-16 or UTF-32 code units) with
//     explicit failure on malformed input.
//   - Values: Go values and strings to host variants, with string payloads
//     copied into host-allocated buffers.
//   - Access: reading and writing properties of host objects by name or
//     index, and creating empty host arrays.
//
// Marshalling failures never panic. Text and value conversions return an
// error next to a Void result; property reads return ok=false.
//
// Example Usage:
//
//	codec := marshal.NewCodec(marshal.PlatformWideEncoding())
//	wide, err := codec.UTF8ToWide([]byte("grüße"))
//
//	acc := marshal.NewAccessor(marshal.IndexPolicy{SkipExistenceCheck: true})
//	length, ok := acc.GetNamedProperty(ctx, array, "length")
package marshal
