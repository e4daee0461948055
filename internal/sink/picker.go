// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// StaticPicker always picks Dir. An empty Dir counts as a cancel.
type StaticPicker struct {
	Dir string
}

func (p StaticPicker) PickDirectory(ctx context.Context) (string, error) {
	if p.Dir == "" {
		return "", ErrCanceled
	}
	return p.Dir, nil
}

// PromptPicker asks for a folder on a line-oriented terminal. An empty
// answer accepts the default if there is one. "q", end of input, or an empty
// answer without a default cancels.
type PromptPicker struct {
	fs         afero.Fs
	in         *bufio.Reader
	out        io.Writer
	defaultDir string
}

// NewPromptPicker returns a picker reading answers from in and writing
// prompts to out.
func NewPromptPicker(fs afero.Fs, in io.Reader, out io.Writer, defaultDir string) *PromptPicker {
	return &PromptPicker{
		fs:         fs,
		in:         bufio.NewReader(in),
		out:        out,
		defaultDir: defaultDir,
	}
}

const maxPromptAttempts = 3

func (p *PromptPicker) PickDirectory(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if p.defaultDir != "" {
			fmt.Fprintf(p.out, "Save to folder [%s] (q to cancel): ", p.defaultDir)
		} else {
			fmt.Fprint(p.out, "Save to folder (empty or q to cancel): ")
		}

		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(p.out)
			return "", ErrCanceled
		}

		answer := strings.TrimSpace(line)
		switch {
		case answer == "q":
			return "", ErrCanceled
		case answer == "" && p.defaultDir == "":
			return "", ErrCanceled
		case answer == "":
			answer = p.defaultDir
		}

		ok, err := afero.DirExists(p.fs, answer)
		if err == nil && ok {
			return answer, nil
		}
		fmt.Fprintf(p.out, "%s is not a folder\n", answer)
	}
	return "", fmt.Errorf("%w: no valid folder after %d attempts", ErrCanceled, maxPromptAttempts)
}
