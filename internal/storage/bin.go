package storage

// Resolved media binary paths. Populated from config at startup; the bare
// command names fall back to PATH lookup.
var (
	FfmpegPath  = "ffmpeg"
	FfprobePath = "ffprobe"
)
