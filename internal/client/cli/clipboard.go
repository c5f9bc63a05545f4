package cli

import "github.com/atotto/clipboard"

// systemClipboard adapts the OS clipboard to drive.Clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
