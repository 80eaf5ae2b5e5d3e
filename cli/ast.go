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
	"strconv"
	"strings"

	"github.com/alecthomas/participle"
)

// noinspection GoStructTag
type Command struct {
	Config   *ConfigCmd   `  @@` //nolint
	Exit     *ExitCmd     `| @@` //nolint
	Export   *ExportCmd   `| @@` //nolint
	Help     *HelpCmd     `| @@` //nolint
	Load     *LoadCmd     `| @@` //nolint
	LogLevel *LogLevelCmd `| @@` //nolint
	Nodes    *NodesCmd    `| @@` //nolint
	Plot     *PlotCmd     `| @@` //nolint
	Select   *SelectCmd   `| @@` //nolint
	Sweeps   *SweepsCmd   `| @@` //nolint
	Table    *TableCmd    `| @@` //nolint
}

// noinspection GoStructTag
type ConfigCmd struct {
	Cmd struct{} `"config"` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

// noinspection GoStructTag
type ExportCmd struct {
	Cmd    struct{} `"export"`                     //nolint
	Format string   `@( "xlsx" | "csv" | "json" )` //nolint
	Path   string   `@String`                      //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type LoadCmd struct {
	Cmd     struct{} `"load"`      //nolint
	SweepId *string  `[ @String ]` //nolint
}

type LogLevelCmd struct {
	Cmd   struct{} `"log"`                                                                                    //nolint
	Level string   `[@( "trace"|"debug"|"info"|"warn"|"error"|"crit"|"off"|"none"|"T"|"D"|"I"|"W"|"E"|"C" )]` //nolint
}

// noinspection GoStructTag
type NodesCmd struct {
	Cmd struct{} `"nodes"` //nolint
}

// noinspection GoStructTag
type PlotCmd struct {
	Cmd     struct{}   `"plot"`          //nolint
	Table   *TableName `[ @@ ]`          //nolint
	Columns []string   `[ ( @Ident )+ ]` //nolint
}

// noinspection GoStructTag
type SelectCmd struct {
	Cmd       struct{} `"select"` //nolint
	NodeCount int      `@Int`     //nolint
}

// noinspection GoStructTag
type SweepsCmd struct {
	Cmd struct{} `"sweeps"` //nolint
}

// noinspection GoStructTag
type TableCmd struct {
	Cmd   struct{}   `"table"` //nolint
	Table *TableName `[ @@ ]`  //nolint
}

// noinspection GoStructTag
type TableName struct {
	Val string `@( "node" | "gateway" | "air" )` //nolint
}

var (
	commandParser = participle.MustBuild(&Command{})
)

func parseBytes(b []byte, cmd *Command) error {
	return commandParser.ParseBytes(b, cmd)
}

// unquote removes the quotes of a String token, if the lexer kept them.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
