// Copyright (c) 2020-2023, The OTNS Authors.
// Copyright (c) 2024, The LoRaEnergySim Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kevinalini/LoRaEnergySim/logger"
)

// CliHandler executes one console line. An error ends the console; context.Canceled is a normal
// exit.
type CliHandler interface {
	HandleCommand(cmd string, output io.Writer) error
	GetPrompt() string
}

// CliCompleter is implemented by handlers that offer tab completion.
type CliCompleter interface {
	AutoCompleter() readline.AutoCompleter
}

type CliOptions struct {
	EchoInput   bool
	Stdin       *os.File
	Stdout      *os.File
	HistoryFile string // empty keeps no history
}

func DefaultCliOptions() *CliOptions {
	return &CliOptions{}
}

func (o *CliOptions) withDefaults() *CliOptions {
	opts := CliOptions{}
	if o != nil {
		opts = *o
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &opts
}

// CliInstance is the results console. Cli is the instance used by the lorasim command.
type CliInstance struct {
	Started       chan struct{}
	Options       *CliOptions
	waitCliClosed chan struct{}
}

var Cli = NewCliInstance()

// NewCliInstance returns a console that can be Run once.
func NewCliInstance() *CliInstance {
	return &CliInstance{
		Started:       make(chan struct{}),
		waitCliClosed: make(chan struct{}),
	}
}

// Stop ends a running console and waits for Run to return.
func (cli *CliInstance) Stop() {
	<-cli.Started
	// closing readline from here can block; an interrupt on stdin makes Run close it instead.
	_, _ = cli.Options.Stdin.WriteString("\003\n")
	_ = cli.Options.Stdin.Close()
	logger.Tracef("waiting for console to stop")
	<-cli.waitCliClosed
	logger.Tracef("console stopped")
}

// keepTermState saves the terminal state of f, if it is a terminal. The returned function
// restores it.
func keepTermState(f *os.File) (func(), error) {
	fd := int(f.Fd())
	if !readline.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := readline.GetState(fd)
	if err != nil {
		return nil, err
	}
	return func() {
		_ = readline.Restore(fd, state)
	}, nil
}

func (cli *CliInstance) newReadline(handler CliHandler) (*readline.Instance, error) {
	config := &readline.Config{
		Prompt:            handler.GetPrompt(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistoryFile:       cli.Options.HistoryFile,
		HistorySearchFold: true,
		Stdin:             cli.Options.Stdin,
		Stdout:            cli.Options.Stdout,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			return r, r != readline.CharCtrlZ
		},
	}
	if c, ok := handler.(CliCompleter); ok {
		config.AutoComplete = c.AutoCompleter()
	}
	return readline.NewEx(config)
}

// Run reads commands until exit, end of input, Ctrl-C on an empty line, Stop or a handler error.
func (cli *CliInstance) Run(handler CliHandler, options *CliOptions) error {
	defer logger.Debugf("console exit")
	defer close(cli.waitCliClosed)

	cli.Options = options.withDefaults()
	started := false
	defer func() {
		if !started {
			close(cli.Started)
		}
	}()

	for _, f := range []*os.File{cli.Options.Stdin, cli.Options.Stdout} {
		restore, err := keepTermState(f)
		if err != nil {
			return err
		}
		defer restore()
	}

	l, err := cli.newReadline(handler)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Close()
	}()
	started = true
	close(cli.Started)

	err = cli.readCommands(l, handler)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (cli *CliInstance) readCommands(l *readline.Instance, handler CliHandler) error {
	stdout := cli.Options.Stdout
	for {
		l.SetPrompt(handler.GetPrompt())
		line, err := l.Readline()

		switch {
		case len(line) > 0 && line[0] == readline.CharInterrupt:
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			continue // Ctrl-C while editing drops the line.
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		if cli.Options.EchoInput {
			if _, err := stdout.WriteString(line + "\n"); err != nil {
				return err
			}
		}

		cmd := strings.TrimSpace(line)
		if len(cmd) == 0 {
			continue
		}
		err = handler.HandleCommand(cmd, l.Stdout())
		_ = stdout.Sync()
		if err != nil {
			return err
		}
	}
}
