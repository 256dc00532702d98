// Package graph defines the design graph produced by evaluating a twisty
// scene script. The graph is an immutable DAG of named shape recipes and
// the assemblies that group them, plus the palette table that maps colors
// to material handles.
package graph
