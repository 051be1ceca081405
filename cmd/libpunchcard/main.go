// Command libpunchcard builds the native punch card routine as a C shared
// library for hosts that call it across a foreign function boundary:
//
//	go build -buildmode=c-shared -o libpunchcard.so ./cmd/libpunchcard
//
// On android the same library also exposes the JNI entry point used by the
// com.example.punchcard host activity.
package main

import (
	"sync"

	"github.com/spf13/afero"

	"github.com/toozej/punchcard/internal/greeting"
	"github.com/toozej/punchcard/internal/native"
	"github.com/toozej/punchcard/pkg/config"
)

var provider = sync.OnceValue(func() greeting.Provider {
	conf := config.GetEnvVars()
	if conf.Stub != "" {
		return greeting.Stub(conf.Stub)
	}
	return native.New(native.Options{
		Fs:          afero.NewOsFs(),
		ProfilePath: conf.Profile,
		StoreDSN:    conf.StoreDSN,
		Placeholder: conf.Placeholder,
	})
})

// runNative is the single operation exported to hosts.
func runNative() string {
	return provider().Run()
}

func main() {}
