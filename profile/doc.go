// Package profile runs the optional pkg/profile profilers around a command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	reshape --pprof-mode cpu apply doc.yaml data.json
//	go tool pprof reshape "$XDG_CACHE_HOME/reshape/pprof/cpu.pprof"
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
// With it, the net/http/pprof handlers are also registered on
// [net/http.DefaultServeMux].
package profile
