// Package catalog discovers recorded meetings from object-store keys.
//
// Keys follow the convention
//
//	<date>/<roomID>/<meetingTime>/<speaker>/<trackTime>_<rest>.ogg
//
// and the catalog derives stable meeting identifiers from the first three
// segments so the same physical meeting yields the same id across calls and
// process restarts.
package catalog
