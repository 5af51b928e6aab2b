package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quocvuong92/kitty-launcher/internal/constants"
	"github.com/quocvuong92/kitty-launcher/internal/dispatch"
)

const shebangMarker = "#!"

// ParseShebang returns the command line that runs the script at path: the
// interpreter named on its "#!" line when there is one, else override. An
// override of exactly ["__ext__"] means the script's lower-cased extension.
// The script path is appended as the final argument.
//
// On macOS the interpreter line is split on every space, elsewhere only on
// the first one, so "#!/usr/bin/env bash -x" becomes
// ["/usr/bin/env", "bash", "-x"] and ["/usr/bin/env", "bash -x"] respectively.
func ParseShebang(path string, override []string, goos string) ([]string, error) {
	cmd := append([]string(nil), override...)
	if len(cmd) == 1 && cmd[0] == constants.ExtensionSentinel {
		cmd = []string{strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))}
	}

	line, ok, err := readShebang(path)
	if err != nil {
		return nil, err
	}
	if ok {
		if constants.IsMacOS(goos) {
			cmd = strings.Split(line, " ")
		} else {
			cmd = strings.SplitN(line, " ", 2)
		}
	}

	if len(cmd) == 0 || cmd[0] == "" {
		return nil, dispatch.Exitf("%s has no shebang line and no command to run it was given", path)
	}
	return append(cmd, path), nil
}

// readShebang returns the trimmed interpreter line of the file at path. The
// file is closed before it returns.
func readShebang(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, dispatch.Exitf("The file %s does not exist", path)
		}
		return "", false, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	head := make([]byte, len(shebangMarker))
	if n, _ := io.ReadFull(r, head); n < len(head) || string(head) != shebangMarker {
		return "", false, nil
	}

	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("read script: %w", err)
	}
	return strings.TrimSpace(line), true, nil
}
