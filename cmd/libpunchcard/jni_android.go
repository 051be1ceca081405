//go:build android && cgo

package main

/*

#include <stdlib.h>
#include <jni.h>

static jstring jni_NewStringUTF(JNIEnv *env, const char *bytes) {
	return (*env)->NewStringUTF(env, bytes);
}

*/
import "C"
import "unsafe"

//export Java_com_example_punchcard_RustPunchCard_runRustCode
func Java_com_example_punchcard_RustPunchCard_runRustCode(env *C.JNIEnv, obj C.jobject) C.jstring {
	str := C.CString(runNative())
	defer C.free(unsafe.Pointer(str))

	return C.jni_NewStringUTF(env, str)
}
