// Package main provides diagram generation utilities for the punchcard project.
//
// This application generates architectural and component diagrams using the
// go-diagrams library. The generated .dot files are written to
// docs/diagrams/go-diagrams/ and can be converted to images with Graphviz.
//
// Usage:
//
//	go run cmd/diagrams/main.go
//
// This will generate:
//   - architecture.dot: the startup path from host trigger to display surface
//   - components.dot: package relationships
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/blushft/go-diagrams/diagram"
	"github.com/blushft/go-diagrams/nodes/generic"
	"github.com/blushft/go-diagrams/nodes/programming"
)

func main() {
	// Ensure output directory exists
	if err := os.MkdirAll("docs/diagrams", 0750); err != nil {
		log.Fatal("Failed to create output directory:", err)
	}

	if err := os.Chdir("docs/diagrams"); err != nil {
		log.Fatal("Failed to change directory:", err)
	}

	generateArchitectureDiagram()
	generateComponentDiagram()

	fmt.Println("Diagram .dot files generated successfully in ./docs/diagrams/go-diagrams/")
}

// generateArchitectureDiagram draws the startup path: a host trigger runs the
// provider once and the result lands on the display surface.
func generateArchitectureDiagram() {
	d, err := diagram.New(diagram.Filename("architecture"), diagram.Label("Punchcard Architecture"), diagram.Direction("TB"))
	if err != nil {
		log.Fatal(err)
	}

	host := generic.Blank.Blank(diagram.NodeLabel("Host\n(CLI / JNI / C)"))
	shell := programming.Language.Go(diagram.NodeLabel("Shell\n(run once)"))
	provider := programming.Language.Go(diagram.NodeLabel("Greeting Provider\n(fallback placeholder)"))
	native := programming.Language.Go(diagram.NodeLabel("Native Benchmark"))
	protocols := programming.Language.Go(diagram.NodeLabel("Punch Card Protocols\n(ristretto255 / bls12-381)"))
	store := generic.Blank.Blank(diagram.NodeLabel("Redeemed Cards\n(memory / sqlite)"))
	display := generic.Blank.Blank(diagram.NodeLabel("Display Surface\n(stdout / file)"))

	d.Connect(host, shell, diagram.Forward())
	d.Connect(shell, provider, diagram.Forward())
	d.Connect(provider, native, diagram.Forward())
	d.Connect(native, protocols, diagram.Forward())
	d.Connect(protocols, store, diagram.Forward())
	d.Connect(shell, display, diagram.Forward())

	if err := d.Render(); err != nil {
		log.Fatal(err)
	}
}

// generateComponentDiagram draws the package dependency graph.
func generateComponentDiagram() {
	d, err := diagram.New(diagram.Filename("components"), diagram.Label("Punchcard Components"), diagram.Direction("LR"))
	if err != nil {
		log.Fatal(err)
	}

	main := programming.Language.Go(diagram.NodeLabel("main.go"))
	rootCmd := programming.Language.Go(diagram.NodeLabel("cmd/punchcard\nroot.go"))
	lib := programming.Language.Go(diagram.NodeLabel("cmd/libpunchcard"))
	config := programming.Language.Go(diagram.NodeLabel("pkg/config"))

	app := programming.Language.Go(diagram.NodeLabel("internal/app"))
	shell := programming.Language.Go(diagram.NodeLabel("internal/shell"))
	greeting := programming.Language.Go(diagram.NodeLabel("internal/greeting"))
	native := programming.Language.Go(diagram.NodeLabel("internal/native"))
	bench := programming.Language.Go(diagram.NodeLabel("internal/bench"))
	punchcard := programming.Language.Go(diagram.NodeLabel("internal/punchcard"))
	pairing := programming.Language.Go(diagram.NodeLabel("internal/pairing"))
	store := programming.Language.Go(diagram.NodeLabel("internal/store"))

	d.Connect(main, rootCmd, diagram.Forward())
	d.Connect(rootCmd, config, diagram.Forward())
	d.Connect(rootCmd, app, diagram.Forward())
	d.Connect(rootCmd, shell, diagram.Forward())
	d.Connect(rootCmd, native, diagram.Forward())
	d.Connect(lib, config, diagram.Forward())
	d.Connect(lib, native, diagram.Forward())

	d.Connect(app, native, diagram.Forward())
	d.Connect(app, punchcard, diagram.Forward())
	d.Connect(app, pairing, diagram.Forward())
	d.Connect(shell, greeting, diagram.Forward())
	d.Connect(native, greeting, diagram.Forward())
	d.Connect(native, bench, diagram.Forward())
	d.Connect(bench, punchcard, diagram.Forward())
	d.Connect(bench, pairing, diagram.Forward())
	d.Connect(punchcard, store, diagram.Forward())
	d.Connect(pairing, store, diagram.Forward())

	if err := d.Render(); err != nil {
		log.Fatal(err)
	}
}
