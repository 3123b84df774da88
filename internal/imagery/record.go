package imagery

// ChannelResult is the per-channel outcome of one transformation. Each
// detector family provides its own concrete type so the caller can recover
// typed state (for example the active-contour level-set arrays) while the
// history still offers a uniform display surface.
type ChannelResult interface {
	// Public returns the display metrics of this channel's run: best-fit
	// parameters, durations, counts. Keys are stable per family.
	Public() map[string]any

	// Overlay returns the drawing commands produced as a visualization side
	// artifact, in emission order.
	Overlay() []DrawCmd
}

// Transformation is one applied operation in an image's history: its name,
// the parameters that define the mathematical variant (major) and the tuning
// knobs (minor), and one ChannelResult per processed channel.
type Transformation struct {
	Name  string
	Major map[string]any
	Minor map[string]any

	// Channels holds one entry per processed channel (1 or 3). Entries may
	// be nil for operations that produce no per-channel metrics.
	Channels []ChannelResult
}

// PublicResults flattens the non-nil per-channel public metrics, keyed by
// channel index.
func (t Transformation) PublicResults() []map[string]any {
	out := make([]map[string]any, len(t.Channels))
	for i, c := range t.Channels {
		if c != nil {
			out[i] = c.Public()
		}
	}
	return out
}
