//go:build cgo

package main

/*
#include <stdlib.h>
*/
import "C"
import "unsafe"

// punchcard_run returns the native routine's result as a NUL-terminated
// string allocated with malloc. The caller releases it with punchcard_free.
//
//export punchcard_run
func punchcard_run() *C.char {
	return C.CString(runNative())
}

//export punchcard_free
func punchcard_free(s *C.char) {
	C.free(unsafe.Pointer(s))
}
