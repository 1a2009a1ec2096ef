// Package whisper wraps the external whisper.cpp recognition engine. The
// engine's textual progress output is a de facto parsing contract; the
// narrow ParseProgressLine function isolates it from job-state logic.
package whisper
