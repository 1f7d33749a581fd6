// Package clipboard copies run IDs and file paths out of the dashboard.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// Writer copies text to a clipboard.
type Writer func(text string) error

// System is the default Writer: the native clipboard (pbcopy, xclip,
// wl-copy and friends), then OSC 52 on stderr for SSH and tmux sessions.
func System(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}
	return WriteOSC52(os.Stderr, text)
}

// WriteOSC52 asks the terminal behind w to set its clipboard to text.
func WriteOSC52(w io.Writer, text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(w, "\x1b]52;c;%s\x07", encoded)
	return err
}
