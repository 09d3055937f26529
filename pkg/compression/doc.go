// Package compression decodes and encodes ETS2/ATS save payloads.
//
// The game writes game.sii and info.sii either as plain SII text ("SiiN"),
// as the binary "BSII" format, or as an "ScsC" container: a 56 byte header
// (magic, HMAC-SHA256, IV, inflated size) followed by AES-256-CBC encrypted
// zlib data. Plain text and ScsC are supported; BSII is rejected with a hint
// to switch the game to text saves.
package compression
