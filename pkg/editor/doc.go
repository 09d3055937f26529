// Package editor loads a save, applies property edits and writes it back.
package editor
