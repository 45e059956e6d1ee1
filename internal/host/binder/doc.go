// Package binder builds a host.Compilation from parsed C# syntax trees and a
// set of embedded reference stubs.
//
// Binding runs in fixed phases: declare types (merging partial parts),
// resolve base lists, declare and type members, bind attributes, and index
// identifier references. Each phase completes for every type before the next
// starts, so later phases can rely on the whole type graph.
package binder
