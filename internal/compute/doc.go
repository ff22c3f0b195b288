// Package compute splits per-particle loops across goroutines.
//
// Only loops whose iterations write nothing but their own particle may run
// on a [Backend]; the contact sweep depends on index order and stays serial.
//
//	compute.GetBackend().Range(len(ps), func(lo, hi int) {
//	    for i := lo; i < hi; i++ { ... }
//	})
package compute
