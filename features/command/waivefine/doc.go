// Package waivefine implements forgiving a PENDING fine. WAIVED is terminal.
package waivefine
