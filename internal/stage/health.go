package stage

// Health reports whether a pipeline stage can currently do work, for
// example whether the recognition runtime or ffmpeg is reachable.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy returns a ready Health record for the named stage.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy returns a not-ready Health record carrying the reason.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Detail: detail}
}
