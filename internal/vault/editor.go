package vault

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/aidanlsb/rook/internal/config"
)

// OpenInEditor opens a file in the user's configured editor.
// Returns true if the editor was launched, false otherwise.
// The process is started in the background (non-blocking).
//
// If the editor contains spaces (e.g., "open -a Cursor"), it is executed
// via shell to handle the arguments correctly.
func OpenInEditor(cfg *config.Config, filePath string) bool {
	if cfg == nil {
		return false
	}

	editor := cfg.GetEditor()
	if editor == "" {
		return false
	}

	var cmd *exec.Cmd
	if strings.Contains(editor, " ") {
		cmd = exec.Command("sh", "-c", editor+" "+shellQuote(filePath))
	} else {
		cmd = exec.Command(editor, filePath)
	}

	if err := cmd.Start(); err != nil {
		fmt.Printf("Warning: failed to open editor '%s': %v\n", editor, err)
		return false
	}
	return true
}

// shellQuote quotes a string for safe use in shell commands.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// OpenInEditorOrPrintPath opens a file in the editor, or prints the path if
// no editor is configured.
func OpenInEditorOrPrintPath(cfg *config.Config, filePath string) {
	if !OpenInEditor(cfg, filePath) {
		fmt.Printf("Open: %s\n", filePath)
		fmt.Println("(Set 'editor' in ~/.config/rook/config.toml or $EDITOR to open automatically)")
	}
}
