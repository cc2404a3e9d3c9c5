package audio

// Provider is the sample-producing surface a driver's audio sink consumes,
// plus per-channel debug toggles (mute, solo, status).
type Provider interface {
	GetSamples(count int) []float32

	ToggleChannel(channel int)
	SoloChannel(channel int)
	GetChannelStatus() (ch1, ch2, ch3, ch4 bool)
}

var _ Provider = (*Mixer)(nil)
