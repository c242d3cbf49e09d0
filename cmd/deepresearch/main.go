// Package main provides the entry point for the deepresearch CLI.
//
// deepresearch runs iterative web research: each round searches the web,
// feeds the results to an LLM for analysis, and lets the model steer the
// next round's search query.
//
// Usage:
//
//	deepresearch research "your question" --depth 4
//	deepresearch serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
