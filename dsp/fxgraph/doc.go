// Package fxgraph routes stereo audio through a directed acyclic graph of
// effects under a real-time deadline.
//
// A Graph is edited on a control goroutine: effect, split and merge nodes
// are added and connected between one input and one output node. Compile
// validates the graph and lowers it into an immutable Snapshot, a flat list
// of buffer instructions with a fixed set of pre-allocated buffers and
// latency compensation delays on every merge whose inputs arrive at
// different latencies.
//
// An Engine publishes snapshots to the audio goroutine with one atomic
// pointer store. The audio goroutine picks the new snapshot up at the next
// block boundary and crossfades from the previous one, so topology changes
// never click. Bypass toggles need no recompilation: each effect step fades
// between its dry and wet signals on its own.
//
// Compiling a graph again gives the new snapshot its own clone of every
// effect that implements effect.Cloner. When the engine switches between
// two snapshots of one graph, the incoming snapshot takes over the
// processing state of every node they have in common before the crossfade
// starts, so editing a live graph and publishing the result does not
// disturb the effects that stay. Effects without Clone remain shared, and
// Publish refuses a snapshot that shares one with a running snapshot.
//
// Typical use:
//
//	g := fxgraph.New(core.WithBlockSize(128))
//	in, out := g.AddInput(), g.AddOutput()
//	gain := g.AddEffect(effect.NewGain(0.5, 64))
//	g.Connect(in, gain)
//	g.Connect(gain, out)
//	snap, err := g.Compile()
//	...
//	eng, _ := fxgraph.NewEngine(fxgraph.WithProcessorConfig(g.Config()))
//	eng.Publish(snap)
//	eng.Process(inL, inR, outL, outR) // audio goroutine
package fxgraph
