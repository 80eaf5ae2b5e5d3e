// Copyright (c) 2023, The OTNS Authors.
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
	_ "embed"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// helpTopic is the reference text of one console command.
type helpTopic struct {
	summary    string
	text       []string
	definition []string
	examples   []string
}

// grammarCommand is a command keyword of the console grammar with the keywords it accepts.
type grammarCommand struct {
	name string
	args []string
}

type Help struct {
	termWidth uint
	commands  []grammarCommand
	topics    map[string]*helpTopic
}

var (
	literalPattern = regexp.MustCompile(`"([a-z]+)"`)
	inlineMarkup   = strings.NewReplacer("`", "", "\\", "")
)

//go:embed README.md
var cliHelpFile string

func newHelp() Help {
	h := Help{
		termWidth: 80,
		commands:  grammarCommands(),
		topics:    parseHelpTopics(cliHelpFile),
	}
	h.update()
	return h
}

// update picks up the width of the terminal on stdout, if there is one.
func (help *Help) update() {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	if width, _, err := term.GetSize(fd); err == nil && width > 20 {
		help.termWidth = uint(width)
	}
}

func (help *Help) width() uint {
	help.update()
	return help.termWidth
}

func (help *Help) commandNames() []string {
	names := make([]string, 0, len(help.commands))
	for _, c := range help.commands {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

func (help *Help) outputGeneralHelp() string {
	names := help.commandNames()
	nameWidth := 0
	for _, name := range names {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
	}

	var sb strings.Builder
	for _, name := range names {
		summary := "(undocumented)"
		if topic := help.topics[name]; topic != nil && topic.summary != "" {
			summary = topic.summary
		}
		_, _ = fmt.Fprintf(&sb, "%-*s  %s\n", nameWidth, name, summary)
	}
	sb.WriteString(wordwrap.WrapString("\nUse 'help <command>' for the syntax and examples of one command.\n",
		help.width()))
	return sb.String()
}

// outputCommandHelp renders the reference of one command. Unknown commands are an error that
// lists the commands starting with the same letters.
func (help *Help) outputCommandHelp(command string) (string, error) {
	if !help.isCommand(command) {
		var similar []string
		for _, name := range help.commandNames() {
			if name[0] == command[0] {
				similar = append(similar, name)
			}
		}
		if len(similar) > 0 {
			return "", errors.Errorf("unknown command %s, did you mean: %s", command, strings.Join(similar, ", "))
		}
		return "", errors.Errorf("unknown command %s", command)
	}

	topic := help.topics[command]
	if topic == nil {
		return command + "\n  (undocumented)\n", nil
	}

	width := help.width() - 2
	var sb strings.Builder
	sb.WriteString(command + "\n")
	for i, paragraph := range topic.text {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, line := range strings.Split(wordwrap.WrapString(paragraph, width), "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	writeBlock(&sb, "Definition:", topic.definition)
	writeBlock(&sb, "Example:", topic.examples)
	return sb.String(), nil
}

func writeBlock(sb *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	sb.WriteString("\n  " + title + "\n")
	for _, line := range lines {
		sb.WriteString("    " + line + "\n")
	}
}

func (help *Help) isCommand(name string) bool {
	for _, c := range help.commands {
		if c.name == name {
			return true
		}
	}
	return false
}

// grammarCommands lists the commands of the Command grammar, in declaration order. The name is the
// literal of the Cmd field; the args are the literals of the other fields.
func grammarCommands() []grammarCommand {
	ct := reflect.TypeOf(Command{})
	cmds := make([]grammarCommand, 0, ct.NumField())
	for i := 0; i < ct.NumField(); i++ {
		st := ct.Field(i).Type.Elem()
		gc := grammarCommand{}
		for j := 0; j < st.NumField(); j++ {
			f := st.Field(j)
			if f.Name == "Cmd" {
				if m := literalPattern.FindStringSubmatch(string(f.Tag)); m != nil {
					gc.name = m[1]
				}
				continue
			}
			gc.args = append(gc.args, fieldLiterals(f)...)
		}
		cmds = append(cmds, gc)
	}
	return cmds
}

func fieldLiterals(f reflect.StructField) []string {
	var lits []string
	for _, m := range literalPattern.FindAllStringSubmatch(string(f.Tag), -1) {
		lits = append(lits, m[1])
	}
	t := f.Type
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			lits = append(lits, fieldLiterals(t.Field(i))...)
		}
	}
	return lits
}

// parseHelpTopics reads the "### <command>" sections of the reference. A shell block is the
// definition, a bash block an example; other lines are joined into paragraphs.
func parseHelpTopics(md string) map[string]*helpTopic {
	topics := map[string]*helpTopic{}
	var topic *helpTopic
	var block *[]string
	paragraph := ""

	endParagraph := func() {
		if topic != nil && paragraph != "" {
			topic.text = append(topic.text, paragraph)
			if topic.summary == "" {
				topic.summary = firstSentence(paragraph)
			}
		}
		paragraph = ""
	}

	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case block != nil && line == "```":
			block = nil
		case block != nil:
			*block = append(*block, line)
		case strings.HasPrefix(line, "### "):
			endParagraph()
			topic = &helpTopic{}
			topics[strings.TrimSpace(line[4:])] = topic
		case strings.HasPrefix(line, "#"):
			endParagraph()
			topic = nil
		case topic == nil:
		case line == "```shell":
			endParagraph()
			block = &topic.definition
		case line == "```bash":
			endParagraph()
			block = &topic.examples
		case strings.TrimSpace(line) == "":
			endParagraph()
		default:
			if paragraph != "" {
				paragraph += " "
			}
			paragraph += inlineMarkup.Replace(strings.TrimSpace(line))
		}
	}
	endParagraph()
	return topics
}

func firstSentence(s string) string {
	if idx := strings.Index(s, ". "); idx > 0 {
		return s[:idx+1]
	}
	return s
}
