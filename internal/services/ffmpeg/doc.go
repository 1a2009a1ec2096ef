// Package ffmpeg wraps the external audio-extraction tool that normalizes
// downloaded meeting audio into the 16 kHz mono WAV the recognition engine
// requires.
package ffmpeg
